package main

import (
	"reflect"
	"testing"
)

func TestSplitStages(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{"no command", nil, nil},
		{"single command", []string{"wc", "-c"}, [][]string{{"wc", "-c"}}},
		{"two stages", []string{"tr", "a-z", "A-Z", "|", "wc", "-c"},
			[][]string{{"tr", "a-z", "A-Z"}, {"wc", "-c"}}},
		{"three stages", []string{"cat", "|", "sort", "|", "uniq"},
			[][]string{{"cat"}, {"sort"}, {"uniq"}}},
		{"trailing separator", []string{"cat", "|"}, [][]string{{"cat"}, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitStages(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitStages(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing command", []string{"-queue", "q"}, 1},
		{"routing key without exchange", []string{"-routing-key", "rk", "cat"}, 1},
		{"unknown source", []string{"-source", "nope", "-queue", "q", "cat"}, 1},
		{"empty stage", []string{"-queue", "q", "cat", "|"}, 1},
		{"bad flag", []string{"-definitely-not-a-flag"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// All of these fail before any connection is attempted.
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
