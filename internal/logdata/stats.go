package logdata

import (
	"math"
	"strconv"
)

// Min returns the smallest sample rounded to 1 decimal place.
func (d *DataSet) Min() (float64, error) {
	if len(d.values) == 0 {
		return 0, ErrEmptySeries
	}
	minVal := math.Inf(1)
	for _, v := range d.values {
		if v < minVal {
			minVal = v
		}
	}
	return round(minVal, 1), nil
}

// Max returns the largest sample rounded to 1 decimal place.
func (d *DataSet) Max() (float64, error) {
	if len(d.values) == 0 {
		return 0, ErrEmptySeries
	}
	maxVal := math.Inf(-1)
	for _, v := range d.values {
		if v > maxVal {
			maxVal = v
		}
	}
	return round(maxVal, 1), nil
}

// Average returns the arithmetic mean of the samples rounded to 1 decimal place.
func (d *DataSet) Average() (float64, error) {
	if len(d.values) == 0 {
		return 0, ErrEmptySeries
	}
	var sum float64
	for _, v := range d.values {
		sum += v
	}
	return round(sum/float64(len(d.values)), 1), nil
}

// MAhUsed returns the milliamp-hours drawn over the capture, rounded to 1 decimal place.
// It uses the rounded average and is 0 for anything but CURRENT files.
func (d *DataSet) MAhUsed() (float64, error) {
	if !d.IsCurrent() {
		return 0, nil
	}
	avg, err := d.Average()
	if err != nil {
		return 0, err
	}
	return round(avg*d.Duration()/3600.0, 1), nil
}

// TimeToRunOut returns the hours a battery of capacityMAh lasts at the average current,
// rounded to 3 decimal places. It is 0 for anything but CURRENT files.
func (d *DataSet) TimeToRunOut(capacityMAh float64) (float64, error) {
	if !d.IsCurrent() {
		return 0, nil
	}
	avg, err := d.Average()
	if err != nil {
		return 0, err
	}
	if avg == 0 {
		return 0, ErrZeroAverage
	}
	return round(capacityMAh/avg, 3), nil
}

// round rounds v to places decimals, resolving exact ties to even on the binary value.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
