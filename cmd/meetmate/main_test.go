package main

import (
	"reflect"
	"testing"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/models"
)

func TestWorkingHours(t *testing.T) {
	got, err := workingHours(nil)
	if err != nil || !reflect.DeepEqual(got, models.WorkingHours(constants.DefaultWorkingHours)) {
		t.Errorf("workingHours(nil) = %v, %v", got, err)
	}

	got, err = workingHours([]string{"8am", " 13:00 ", "4:00 pm"})
	if err != nil {
		t.Fatalf("workingHours() error = %v", err)
	}
	want := models.WorkingHours{"8:00 AM", "1:00 PM", "4:00 PM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("workingHours() = %v, want %v", got, want)
	}

	if _, err := workingHours([]string{"9am", "9:00 AM"}); err == nil {
		t.Error("expected error for duplicate hour")
	}
	if _, err := workingHours([]string{" "}); err == nil {
		t.Error("expected error for empty hours")
	}
}

func TestCalendarTargetRejectsEmbeddedPassword(t *testing.T) {
	if _, err := calendarTarget("postgres://user:pw@localhost/meetmate"); err == nil {
		t.Error("expected error for connection string with password")
	}
	got, err := calendarTarget("postgres://user@localhost/meetmate")
	if err != nil || got != "postgres://user@localhost/meetmate" {
		t.Errorf("calendarTarget() = %q, %v", got, err)
	}
}

func TestCalendarTargetKeyValueDSN(t *testing.T) {
	dsn := "host=localhost user=meetmate dbname=meetmate"
	got, err := calendarTarget(dsn)
	if err != nil || got != dsn {
		t.Errorf("calendarTarget() = %q, %v, want the DSN unchanged", got, err)
	}
	if _, err := calendarTarget("host=localhost user=meetmate password=secret"); err == nil {
		t.Error("expected error for key=value DSN with password")
	}
}
