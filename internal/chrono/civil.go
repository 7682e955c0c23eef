package chrono

import (
	"errors"
	"time"

	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/scale"
)

// CivilLabel formats count units of unit on scale id the way a UTC wall
// clock reads it. Instants inside inserted time read 23:59:60.
func CivilLabel(r *offset.Resolver, id scale.ID, unit time.Duration, count int64) (string, error) {
	sys, err := scale.Convert(r, id, scale.Sys, count, unit)
	if err == nil {
		return Label(scale.Sys, unit, sys).Format(time.RFC3339Nano), nil
	}

	if !errors.Is(err, offset.ErrAmbiguous) {
		return "", err
	}

	// One second earlier the clock reads 23:59:59 with the same fraction.
	prev, err := scale.Convert(r, id, scale.Sys, count-int64(time.Second/unit), unit)
	if err != nil {
		return "", err
	}

	label := Label(scale.Sys, unit, prev)

	return label.Format("2006-01-02T15:04:") + "60" + label.Format(".999999999") + "Z", nil
}

// Civil is CivilLabel for a typed time point.
func Civil[S Scale, P Precision](r *offset.Resolver, tp TimePoint[S, P]) (string, error) {
	return CivilLabel(r, tp.Scale(), tp.Unit(), tp.count)
}
