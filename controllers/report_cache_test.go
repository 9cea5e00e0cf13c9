// controllers/report_cache_test.go
package controllers

import (
	"reflect"
	"testing"
)

func TestSprintCacheKeys(t *testing.T) {
	tests := []struct {
		name    string
		sprints []string
		want    []string
	}{
		{
			name:    "single sprint",
			sprints: []string{"2026-08"},
			want:    []string{"report:sprint:2026-08"},
		},
		{
			name:    "edit spanning two sprints",
			sprints: []string{"2026-07", "2026-08"},
			want:    []string{"report:sprint:2026-07", "report:sprint:2026-08"},
		},
		{
			name:    "duplicates collapse",
			sprints: []string{"2026-08", "2026-08"},
			want:    []string{"report:sprint:2026-08"},
		},
		{
			name:    "blank sprints are skipped",
			sprints: []string{"", "2026-08", ""},
			want:    []string{"report:sprint:2026-08"},
		},
		{
			name:    "nothing to invalidate",
			sprints: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sprintCacheKeys(tt.sprints...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("sprintCacheKeys(%v) = %v, want %v", tt.sprints, got, tt.want)
			}
		})
	}
}
