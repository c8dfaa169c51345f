package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, true},
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"ready to delivered", StatusReady, StatusDelivered, true},
		{"pending skips to ready", StatusPending, StatusReady, false},
		{"pending skips to delivered", StatusPending, StatusDelivered, false},
		{"preparing back to pending", StatusPreparing, StatusPending, false},
		{"ready back to preparing", StatusReady, StatusPreparing, false},
		{"cancel from pending", StatusPending, StatusCancelled, true},
		{"cancel from preparing", StatusPreparing, StatusCancelled, true},
		{"cancel from ready", StatusReady, StatusCancelled, true},
		{"cancel from delivered", StatusDelivered, StatusCancelled, false},
		{"cancel from cancelled", StatusCancelled, StatusCancelled, false},
		{"delivered is final", StatusDelivered, StatusPending, false},
		{"cancelled is final", StatusCancelled, StatusPreparing, false},
		{"unknown source", "draft", StatusPreparing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		terminal := status == StatusDelivered || status == StatusCancelled
		if got := IsTerminalStatus(status); got != terminal {
			t.Errorf("IsTerminalStatus(%q) = %v, want %v", status, got, terminal)
		}
	}
}
