package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

func TestPreferencesService_DefaultsAndUpdate(t *testing.T) {
	svc := &PreferencesService{DB: newSvcDB(t)}
	ctx := context.Background()

	p, err := svc.Get(ctx, "u1")
	if err != nil || p.AutoClearHistory != domain.RetentionNever || p.Timezone != "UTC" {
		t.Fatalf("defaults = %+v, %v", p, err)
	}

	p, err = svc.Update(ctx, "u1", PreferencesInput{AutoClearHistory: strp("7DAYS"), Timezone: strp("America/New_York")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.AutoClearHistory != domain.Retention7Days || p.Timezone != "America/New_York" {
		t.Fatalf("updated = %+v", p)
	}

	p, err = svc.Update(ctx, "u1", PreferencesInput{Timezone: strp("Europe/Athens")})
	if err != nil || p.AutoClearHistory != domain.Retention7Days || p.Timezone != "Europe/Athens" {
		t.Fatalf("partial update = %+v, %v", p, err)
	}
	got, _ := svc.Get(ctx, "u1")
	if got.Timezone != "Europe/Athens" {
		t.Fatalf("not persisted: %+v", got)
	}
}

func TestPreferencesService_Validation(t *testing.T) {
	svc := &PreferencesService{DB: newSvcDB(t)}
	ctx := context.Background()
	if _, err := svc.Update(ctx, "u1", PreferencesInput{AutoClearHistory: strp("monthly")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad policy: %v", err)
	}
	if _, err := svc.Update(ctx, "u1", PreferencesInput{Timezone: strp("Mars/Olympus")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad tz: %v", err)
	}
}
