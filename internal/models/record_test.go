package models

import "testing"

func TestOptional_AbsentVersusEmpty(t *testing.T) {
	absent := Absent()
	empty := Some("")

	if absent.Present() {
		t.Fatal("Absent() must not be present")
	}
	if !empty.Present() {
		t.Fatal("Some(\"\") must be present")
	}

	if got := absent.Or("NA"); got != "NA" {
		t.Fatalf("absent fallback = %q, want NA", got)
	}
	if got := empty.Or("NA"); got != "" {
		t.Fatalf("present empty value = %q, want empty string", got)
	}
}

func TestOptional_Get(t *testing.T) {
	value, ok := Some("20230815").Get()
	if !ok || value != "20230815" {
		t.Fatalf("Get() = %q, %v", value, ok)
	}

	if _, ok := Absent().Get(); ok {
		t.Fatal("Get() on absent must report missing")
	}
}

func TestDirectoryOutcome_Succeeded(t *testing.T) {
	if !(DirectoryOutcome{Status: StatusSuccess}).Succeeded() {
		t.Fatal("SUCCESS outcome must report success")
	}
	if (DirectoryOutcome{Status: StatusFailed}).Succeeded() {
		t.Fatal("FAILED outcome must not report success")
	}
}
