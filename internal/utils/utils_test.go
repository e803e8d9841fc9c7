package utils_test

import (
	"post-store/internal/utils"
	"testing"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		matchCount int
		pageSize   int
		want       int
	}{
		{matchCount: 0, pageSize: 10, want: 0},
		{matchCount: 10, pageSize: 10, want: 1},
		{matchCount: 15, pageSize: 10, want: 2},
		{matchCount: 25, pageSize: 10, want: 3},
		{matchCount: 100, pageSize: 25, want: 4},
		{matchCount: 101, pageSize: 25, want: 5},
		{matchCount: 50, pageSize: 0, want: 0}, // edge case: division by zero
	}

	for _, tt := range tests {
		got := utils.CalculateTotalPages(tt.matchCount, tt.pageSize)

		if got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d; want %d", tt.matchCount, tt.pageSize, got, tt.want)
			return
		}
	}
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		page     int
		pageSize int
		want     int
	}{
		{page: 0, pageSize: 20, want: 0},
		{page: 1, pageSize: 20, want: 20},
		{page: 3, pageSize: 7, want: 21},
		{page: -1, pageSize: 20, want: 0},
		{page: 2, pageSize: 0, want: 0},
	}

	for _, tt := range tests {
		if got := utils.PageOffset(tt.page, tt.pageSize); got != tt.want {
			t.Errorf("PageOffset(%d, %d) = %d; want %d", tt.page, tt.pageSize, got, tt.want)
			return
		}
	}
}

func TestParseId(t *testing.T) {
	valid := map[string]uint{"1": 1, " 42 ": 42, "18446744073709": 18446744073709}
	for input, want := range valid {
		got, err := utils.ParseId(input)
		if err != nil || got != want {
			t.Errorf("ParseId(%q) = %d, %v; want %d", input, got, err, want)
			return
		}
	}

	for _, input := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := utils.ParseId(input); err == nil {
			t.Errorf("ParseId(%q): want error", input)
			return
		}
	}
}
