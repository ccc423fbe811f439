package preload

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"high", High, false},
		{"Medium", Medium, false},
		{" low ", Low, false},
		{"urgent", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriority_Ordering(t *testing.T) {
	if !(High > Medium && Medium > Low) {
		t.Error("expected High > Medium > Low")
	}
	if Priority(0).Valid() {
		t.Error("zero priority should be invalid")
	}
	if got := High.String(); got != "high" {
		t.Errorf("High.String() = %q, want high", got)
	}
}
