// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("empty BaseURL was accepted")
	}
}

func TestToggleAuditParsesFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/toggle_audit/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "is_audited": true}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	audited, err := client.ToggleAudit(context.Background(), 7)
	if err != nil {
		t.Fatalf("toggle audit: %v", err)
	}
	if !audited {
		t.Error("is_audited not parsed from response")
	}
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "database is locked"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	_, err = client.ToggleIrrelevant(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "database is locked" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestNetworkFailureSurfacesAsError(t *testing.T) {
	// Point at a server that is immediately closed so the connection
	// is refused.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	if _, err := client.ToggleAudit(context.Background(), 1); err == nil {
		t.Fatal("request against closed server succeeded")
	}
}
