package cal

import "time"

// A span of time, counted either in seconds or in whole days. Daily
// durations keep their day count through all-day date math instead of
// being flattened to 86400-second multiples up front.
type Duration struct {
	value int64
	daily bool
}

func NewDuration(seconds int64) Duration {
	return Duration{value: seconds}
}

func NewDurationDays(days int64) Duration {
	return Duration{value: days, daily: true}
}

// #region Getters

func (d *Duration) GetValue() int64 {
	return d.value
}

func (d *Duration) IsDaily() bool {
	return d.daily
}

// #endregion

func (d *Duration) AsSeconds() int64 {
	if d.daily {
		return d.value * 86400
	}
	return d.value
}

func (d *Duration) AsTimeDuration() time.Duration {
	return time.Duration(d.AsSeconds()) * time.Second
}

// Two durations are equal when they cover the same number of seconds,
// regardless of the unit they were constructed with.
func (d *Duration) Equal(other Duration) bool {
	return d.AsSeconds() == other.AsSeconds()
}

func (d *Duration) serialize(sw *streamWriter) {
	sw.writeInt64(d.value)
	sw.writeBool(d.daily)
}

func (d *Duration) deserialize(sr *streamReader) {
	d.value = sr.readInt64()
	d.daily = sr.readBool()
}
