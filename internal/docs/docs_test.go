package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "api,config,keys,scripting" {
		t.Fatalf("Topics() = %s", got)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" KEYS ")
	if !ok || !strings.Contains(body, "move selected lesson up") {
		t.Fatalf("Get(keys) = %q, %v", body, ok)
	}
	if _, ok := Get("nope"); ok {
		t.Fatal("unknown topic should not resolve")
	}
	if _, ok := Get(""); ok {
		t.Fatal("empty topic should not resolve")
	}
}

func TestRender(t *testing.T) {
	body, _ := Get("api")
	out, err := Render(body, 80, "notty")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "REST API") || !strings.Contains(out, "Live updates") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}
