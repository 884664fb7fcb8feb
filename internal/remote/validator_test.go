package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/observability"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

func newTestValidator() *Validator {
	client := NewLookupClient(zap.NewNop(), observability.NewMetrics())
	return NewValidator(client, 2*time.Second)
}

func int64Ptr(v int64) *int64 { return &v }

func TestValidateAllAllReferencesExist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "tok",
		Ref{Base: server.URL, Resource: "patients", Field: "patient_id", ID: int64Ptr(1)},
		Ref{Base: server.URL, Resource: "doctors", Field: "attending_physician_id", ID: int64Ptr(2)},
	)
	assert.NoError(t, err)
}

func TestValidateAllSkipsNilIDs(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "",
		Ref{Base: server.URL, Resource: "doctors", Field: "attending_physician_id", ID: nil},
	)
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestValidateAllMissingReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "tok",
		Ref{Base: server.URL, Resource: "patients", Field: "patient_id", ID: int64Ptr(42)},
	)
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "patient with ID 42 not found", domainErr.Details["patient_id"])
}

func TestValidateAllAggregatesFailures(t *testing.T) {
	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer missing.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "tok",
		Ref{Base: missing.URL, Resource: "patients", Field: "patient_id", ID: int64Ptr(7)},
		Ref{Base: broken.URL, Resource: "nurses", Field: "triage_nurse_id", ID: int64Ptr(9)},
	)
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Len(t, domainErr.Details, 2)
	assert.Equal(t, "patient with ID 7 not found", domainErr.Details["patient_id"])
	assert.Equal(t, "error (500) while validating nurse with ID 9", domainErr.Details["triage_nurse_id"])
}

func TestValidateAllUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "tok",
		Ref{Base: server.URL, Resource: "patients", Field: "patient_id", ID: int64Ptr(3)},
	)
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "communication error while validating patient with ID 3", domainErr.Details["patient_id"])
}

func TestLookupForwardsTokenAndPath(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	v := newTestValidator()
	err := v.ValidateAll(context.Background(), "abc123",
		Ref{Base: server.URL + "/api", Resource: "doctors", Field: "doctor_id", ID: int64Ptr(5)},
	)
	require.NoError(t, err)
	assert.Equal(t, "/api/doctors/5/", gotPath)
	assert.Equal(t, "Token abc123", gotAuth)
}

func TestEntityName(t *testing.T) {
	assert.Equal(t, "patient", entityName("patients"))
	assert.Equal(t, "user", entityName("users"))
	assert.Equal(t, "vital sign", entityName("vital-signs"))
}
