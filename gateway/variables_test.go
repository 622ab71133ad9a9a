package gateway_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nwittstruck/zeebe-client-go/gateway"
)

func TestMarshalVariables_ObjectBecomesJSONText(t *testing.T) {
	t.Parallel()

	got, err := gateway.MarshalVariables(map[string]any{"orderId": "o-42", "amount": 10})
	if err != nil {
		t.Fatalf("MarshalVariables: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("result is not valid JSON text: %v", err)
	}
	if decoded["orderId"] != "o-42" {
		t.Errorf("decoded orderId = %v, want o-42", decoded["orderId"])
	}
}

func TestMarshalVariables_StringPassesThrough(t *testing.T) {
	t.Parallel()

	raw := `{"already":"encoded"}`
	got, err := gateway.MarshalVariables(raw)
	if err != nil {
		t.Fatalf("MarshalVariables: %v", err)
	}
	if got != raw {
		t.Errorf("MarshalVariables(string) = %q, want unchanged %q", got, raw)
	}
}

func TestMarshalVariables_NilBecomesEmpty(t *testing.T) {
	t.Parallel()

	got, err := gateway.MarshalVariables(nil)
	if err != nil {
		t.Fatalf("MarshalVariables: %v", err)
	}
	if got != "" {
		t.Errorf("MarshalVariables(nil) = %q, want empty", got)
	}
}

func TestMarshalVariables_UnencodableFails(t *testing.T) {
	t.Parallel()

	_, err := gateway.MarshalVariables(map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("MarshalVariables should fail for unencodable payloads")
	}
	if !errors.Is(err, gateway.ErrSerialization) {
		t.Errorf("error = %v, want ErrSerialization", err)
	}
}
