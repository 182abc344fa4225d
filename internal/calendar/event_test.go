package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/interview-tracker/internal/model"
)

func strPtr(s string) *string { return &s }

func TestBuildEvent(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	iv := &model.Interview{
		Company:  "Acme",
		Position: "Engineer",
		Date:     time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
		Round:    "technical",
		Location: strPtr("Zoom"),
	}

	ev := BuildEvent(iv, "Asia/Tokyo", loc)

	assert.Equal(t, "Engineer Interview at Acme", ev.Summary)
	assert.Equal(t, "Round: technical\nNotes: None", ev.Description)
	assert.Equal(t, "Zoom", ev.Location)
	assert.Equal(t, "Asia/Tokyo", ev.TimeZone)
	assert.True(t, ev.Start.Equal(iv.Date), "start must be the stored instant")
	assert.Equal(t, loc, ev.Start.Location())
	assert.Equal(t, loc, ev.End.Location())
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		round string
		notes *string
		want  string
	}{
		{"nil notes", "hr", nil, "Round: hr\nNotes: None"},
		{"empty notes", "hr", strPtr(""), "Round: hr\nNotes: None"},
		{"with notes", "final", strPtr("bring ID"), "Round: final\nNotes: bring ID"},
		{"unknown round verbatim", "coffee chat", nil, "Round: coffee chat\nNotes: None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Description(&model.Interview{Round: tt.round, Notes: tt.notes})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildEvent_NoLocation(t *testing.T) {
	ev := BuildEvent(&model.Interview{Date: time.Now()}, "UTC", time.UTC)
	assert.Empty(t, ev.Location)
}
