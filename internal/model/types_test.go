package model

import "testing"

func TestServerTarget(t *testing.T) {
	s := Server{Name: "db1", Username: "u", Host: "h1", Port: 22}
	tg := s.Target()
	if tg.Destination() != "u@h1" {
		t.Fatalf("unexpected destination %q", tg.Destination())
	}
	if tg.PortString() != "22" {
		t.Fatalf("unexpected port %q", tg.PortString())
	}
}

func TestTargetPassesValuesThrough(t *testing.T) {
	tg := Server{Username: "ops team", Host: "db;rm", Port: 0}.Target()
	if tg.Destination() != "ops team@db;rm" {
		t.Fatalf("expected values unchanged, got %q", tg.Destination())
	}
	if tg.PortString() != "0" {
		t.Fatalf("expected literal zero port, got %q", tg.PortString())
	}
}
