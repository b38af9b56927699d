package contracts

import (
	"reflect"
	"testing"
)

func TestYears(t *testing.T) {
	byYear := map[int]float64{2023: 1, 2019: 2, 2021: 3}

	got := Years(byYear)
	want := []int{2019, 2021, 2023}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Years() = %v, want %v", got, want)
	}

	if got := Years(nil); len(got) != 0 {
		t.Errorf("Years(nil) = %v, want empty", got)
	}
}

func TestSeriesByYear(t *testing.T) {
	byYear := map[int]float64{2023: 12.5, 2021: 10.1, 2022: 11.3}

	got := SeriesByYear(byYear)
	want := []float64{10.1, 11.3, 12.5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SeriesByYear() = %v, want %v", got, want)
	}
}
