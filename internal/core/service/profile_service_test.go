package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestProfileService_GetProfile(t *testing.T) {
	api := replyWith(`{"success":true,"user":{"id":"u1","username":"budi","email":"b@x.id","name":"Budi"}}`)
	kv := newStubKV()
	svc := NewProfileService(api, NewSessionManager(kv, nopLog), nopLog)

	res, err := svc.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if !res.Success || res.User == nil || res.User.Username != "budi" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if req := api.last(); !req.Auth || req.Method != "GET" || req.Path != "profile" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(kv.snapshot()) != 0 {
		t.Fatalf("GetProfile must not write the cache")
	}
}

func TestProfileService_UpdateMergesServerFields(t *testing.T) {
	api := replyWith(`{"success":true,"message":"Profil berhasil diupdate","user":{"email":"x"}}`)
	kv := newStubKV()
	sessions := NewSessionManager(kv, nopLog)
	if err := sessions.SaveSession(context.Background(), "tok", sampleProfile()); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	svc := NewProfileService(api, sessions, nopLog)

	res, err := svc.UpdateProfile(context.Background(), ports.ProfileUpdate{Email: strPtr("x")})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if res.Message != "Profil berhasil diupdate" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	body := bodyJSON(api.last())
	if len(body) != 1 || body["email"] != "x" {
		t.Fatalf("expected only email in body, got %v", body)
	}

	cached, _ := sessions.ReadProfile(context.Background())
	want := sampleProfile()
	want.Email = "x"
	if cached == nil || *cached != want {
		t.Fatalf("unexpected cached profile: %+v", cached)
	}
}

func TestProfileService_UpdateFailureLeavesCache(t *testing.T) {
	api := failWith(&domain.APIError{Status: 400, Message: "Email sudah dipakai"})
	kv := newStubKV()
	sessions := NewSessionManager(kv, nopLog)
	if err := sessions.SaveSession(context.Background(), "tok", sampleProfile()); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	before := kv.snapshot()[ProfileKey]
	svc := NewProfileService(api, sessions, nopLog)

	if _, err := svc.UpdateProfile(context.Background(), ports.ProfileUpdate{Name: strPtr("Baru")}); err == nil {
		t.Fatalf("expected error")
	}
	if kv.snapshot()[ProfileKey] != before {
		t.Fatalf("cache changed after failed update")
	}
}

func TestProfileService_UpdateWithoutUserKeepsCache(t *testing.T) {
	api := replyWith(`{"success":true}`)
	kv := newStubKV()
	sessions := NewSessionManager(kv, nopLog)
	if err := sessions.SaveSession(context.Background(), "tok", sampleProfile()); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	before := kv.snapshot()[ProfileKey]
	svc := NewProfileService(api, sessions, nopLog)

	res, err := svc.UpdateProfile(context.Background(), ports.ProfileUpdate{Name: strPtr("Baru")})
	if err != nil || !res.Success {
		t.Fatalf("UpdateProfile = %+v, %v", res, err)
	}
	if kv.snapshot()[ProfileKey] != before {
		t.Fatalf("cache changed without server fields")
	}
}

func TestProfileService_UpdateCacheWriteFailure(t *testing.T) {
	api := replyWith(`{"user":{"name":"Baru"}}`)
	kv := newStubKV()
	sessions := NewSessionManager(kv, nopLog)
	if err := sessions.SaveSession(context.Background(), "tok", sampleProfile()); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	kv.failSet[ProfileKey] = true
	svc := NewProfileService(api, sessions, nopLog)

	if _, err := svc.UpdateProfile(context.Background(), ports.ProfileUpdate{Name: strPtr("Baru")}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}
