package order

import "testing"

func TestFormatReference(t *testing.T) {
	tests := []struct {
		number int64
		want   string
	}{
		{1, "0001"},
		{7, "0007"},
		{42, "0042"},
		{9999, "9999"},
		{10000, "10000"},
		{123456, "123456"},
	}

	for _, tt := range tests {
		if got := FormatReference(tt.number); got != tt.want {
			t.Errorf("FormatReference(%d) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   QueryOrdersModel
		want QueryOrdersModel
	}{
		{
			name: "zero value defaults",
			in:   QueryOrdersModel{},
			want: QueryOrdersModel{Sort: SortRecent, Limit: MaxListLimit},
		},
		{
			name: "name sort kept",
			in:   QueryOrdersModel{Sort: SortName, Limit: 10},
			want: QueryOrdersModel{Sort: SortName, Limit: 10},
		},
		{
			name: "unknown sort falls back",
			in:   QueryOrdersModel{Sort: "bogus"},
			want: QueryOrdersModel{Sort: SortRecent, Limit: MaxListLimit},
		},
		{
			name: "limit above cap is clamped",
			in:   QueryOrdersModel{Limit: 5000},
			want: QueryOrdersModel{Sort: SortRecent, Limit: MaxListLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
