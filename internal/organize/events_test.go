package organize

import (
	"testing"
	"time"
)

func TestShouldReportSmallRunsReportEveryFile(t *testing.T) {
	total := 50
	for done := 1; done <= total; done++ {
		if !shouldReport(done, total) {
			t.Fatalf("done=%d total=%d should report", done, total)
		}
	}
}

func TestShouldReportThrottlesLargeRuns(t *testing.T) {
	total := 1000
	cases := []struct {
		done int
		want bool
	}{
		{1, true},
		{10, true},
		{11, false},
		{20, true},
		{25, false},
		{500, true},
		{999, false},
		{1000, true},
	}
	for _, tc := range cases {
		if got := shouldReport(tc.done, total); got != tc.want {
			t.Errorf("shouldReport(%d, %d) = %v, want %v", tc.done, total, got, tc.want)
		}
	}
}

func TestShouldReportFinalAlwaysFires(t *testing.T) {
	for _, total := range []int{1, 7, 11, 999, 12345} {
		if !shouldReport(total, total) {
			t.Errorf("final completion of %d must report", total)
		}
	}
}

func TestEstimateETA(t *testing.T) {
	eta := estimateETA(10*time.Second, 10, 100)
	if eta != 90*time.Second {
		t.Fatalf("eta = %v, want 90s", eta)
	}
	if estimateETA(time.Second, 0, 100) != 0 {
		t.Fatal("eta with zero done must be zero")
	}
	if estimateETA(time.Second, 100, 100) != 0 {
		t.Fatal("eta at completion must be zero")
	}
}
