package publishers

import (
	"context"
	"testing"
)

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "x", Type: "nope"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

func TestBuildAllStdout(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "out", Type: TypeStdout},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "out" || pubs[0].Type() != TypeStdout {
		t.Fatalf("unexpected publishers: %#v", pubs)
	}
}
