package shutdown

import (
	"context"
	"errors"
	"testing"
)

func TestStopAll(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	err := StopAll(context.Background(),
		Func(func(context.Context) error { order = append(order, "server"); return boom }),
		nil,
		Func(func(context.Context) error { order = append(order, "store"); return nil }),
	)

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(order) != 2 || order[0] != "server" || order[1] != "store" {
		t.Fatalf("order = %v", order)
	}
}

func TestStopAllEmpty(t *testing.T) {
	if err := StopAll(context.Background()); err != nil {
		t.Fatalf("err = %v", err)
	}
}
