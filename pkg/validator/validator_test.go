package validator

import (
	"errors"
	"testing"

	"go-erp-ws/pkg/apperr"

	"github.com/google/uuid"
)

type orderForm struct {
	CustomerID uuid.UUID `validate:"uuid_required"`
	Quantity   int       `validate:"required,gt=0"`
}

func TestCheckRejectsNilUUID(t *testing.T) {
	err := Check(orderForm{Quantity: 3})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for nil UUID, got %v", err)
	}
}

func TestCheckPassesValidStruct(t *testing.T) {
	form := orderForm{CustomerID: uuid.New(), Quantity: 3}
	if err := Check(form); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructReportsAllFailures(t *testing.T) {
	fields := ValidateStruct(orderForm{})
	if len(fields) != 2 {
		t.Fatalf("expected 2 failures, got %d: %+v", len(fields), fields)
	}
	tags := map[string]string{}
	for _, f := range fields {
		tags[f.Field] = f.Tag
	}
	if tags["orderForm.CustomerID"] != "uuid_required" {
		t.Errorf("expected CustomerID to fail uuid_required, got %+v", fields)
	}
	if tags["orderForm.Quantity"] != "required" {
		t.Errorf("expected Quantity to fail required, got %+v", fields)
	}
}
