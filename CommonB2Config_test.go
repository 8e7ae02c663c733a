package box2d_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func TestWorldDefYAMLRoundTrip(t *testing.T) {
	def := box2d.B2DefaultWorldDef()
	def.Gravity = box2d.MakeB2Vec2(0.0, -9.8)
	def.ContactHertz = 45.0
	def.EnableSleep = false
	def.WorkerCount = 4

	var buffer bytes.Buffer
	if err := box2d.B2SaveWorldDefYAML(&buffer, def); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := box2d.B2LoadWorldDefYAML(&buffer)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Gravity != def.Gravity || loaded.ContactHertz != 45.0 || loaded.EnableSleep || loaded.WorkerCount != 4 {
		t.Fatalf("round trip changed the def: %+v", loaded)
	}

	if loaded.JointHertz != def.JointHertz || loaded.MaximumLinearVelocity != def.MaximumLinearVelocity {
		t.Fatalf("round trip lost defaults: %+v", loaded)
	}
}

func TestWorldDefYAMLPartial(t *testing.T) {
	loaded, err := box2d.B2LoadWorldDefYAML(strings.NewReader("gravity: {x: 1, y: 2}\nenableContinuous: false\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	defaults := box2d.B2DefaultWorldDef()
	if loaded.Gravity != box2d.MakeB2Vec2(1.0, 2.0) || loaded.EnableContinuous {
		t.Fatalf("keys not applied: %+v", loaded)
	}
	if loaded.ContactHertz != defaults.ContactHertz || loaded.EnableSleep != defaults.EnableSleep {
		t.Fatalf("missing keys did not keep defaults: %+v", loaded)
	}

	empty, err := box2d.B2LoadWorldDefYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if empty.Gravity != defaults.Gravity || empty.WorkerCount != defaults.WorkerCount {
		t.Fatalf("empty document is not the default def: %+v", empty)
	}
}

func TestWorldDefYAMLRejects(t *testing.T) {
	if _, err := box2d.B2LoadWorldDefYAML(strings.NewReader("gravityScale: 2\n")); err == nil {
		t.Fatalf("unknown key accepted")
	}

	_, err := box2d.B2LoadWorldDefYAML(strings.NewReader("contactHertz: -1\n"))
	if errors.Is(err, box2d.ErrInvalidDef) == false {
		t.Fatalf("negative hertz returned %v", err)
	}
}
