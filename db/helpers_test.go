package db

import (
	"reflect"
	"testing"
)

func TestJoinSplitInts(t *testing.T) {
	cases := []struct {
		vs     []int
		joined string
	}{
		{nil, ""},
		{[]int{10}, "10"},
		{[]int{10, 25, 50}, "10,25,50"},
	}
	for _, tc := range cases {
		if got := joinInts(tc.vs); got != tc.joined {
			t.Errorf("joinInts(%v) = %q, want %q", tc.vs, got, tc.joined)
		}
		if got := splitInts(tc.joined); !reflect.DeepEqual(got, tc.vs) {
			t.Errorf("splitInts(%q) = %v, want %v", tc.joined, got, tc.vs)
		}
	}
}

func TestSplitIntsSkipsGarbage(t *testing.T) {
	got := splitInts("10, x, 25,,50")
	want := []int{10, 25, 50}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitInts = %v, want %v", got, want)
	}
}

func TestConnectUsesProvidedDSN(t *testing.T) {
	// sql.Open parses the DSN without dialing.
	handle, err := Connect("postgres://user:pw@db.internal:6432/tally?sslmode=disable")
	if err != nil {
		t.Fatalf("connect with explicit dsn: %v", err)
	}
	handle.Close()

	handle, err = Connect("")
	if err != nil {
		t.Fatalf("connect with default dsn: %v", err)
	}
	handle.Close()
}

func TestSplitList(t *testing.T) {
	got := splitList(" !kills , ,!frags ")
	want := []string{"!kills", "!frags"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("splitList(\"\") should be nil")
	}
}
