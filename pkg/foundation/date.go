package foundation

import (
	"math"
	"time"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/objc"
)

// NSDate wraps an NSDate. Intervals are in seconds, as in Foundation.
type NSDate struct {
	objc.Instance[NSDateType]
}

func (*NSDate) KindOfNSObject()  {}
func (*NSDate) KindOfNSDate()    {}
func (*NSDate) KindOfNSCopying() {}

// Now returns [NSDate date].
func Now() *NSDate {
	return objc.Adopt[*NSDate](objc.NonNull(shim.Current().DateNow(), "+[NSDate date]"))
}

func DateWithTimeIntervalSince1970(secs float64) *NSDate {
	return objc.Adopt[*NSDate](objc.NonNull(shim.Current().DateWithTimeIntervalSince1970(secs), "+[NSDate dateWithTimeIntervalSince1970:]"))
}

func DateWithTimeIntervalSinceReferenceDate(secs float64) *NSDate {
	return objc.Adopt[*NSDate](objc.NonNull(shim.Current().DateWithTimeIntervalSinceReferenceDate(secs), "+[NSDate dateWithTimeIntervalSinceReferenceDate:]"))
}

// NSDateFromTime converts t, keeping microsecond precision.
func NSDateFromTime(t time.Time) *NSDate {
	return DateWithTimeIntervalSince1970(float64(t.UnixMicro()) / 1e6)
}

func (d *NSDate) TimeIntervalSince1970() float64 {
	return shim.Current().DateTimeIntervalSince1970(d.Raw())
}

func (d *NSDate) TimeIntervalSinceReferenceDate() float64 {
	return shim.Current().DateTimeIntervalSinceReferenceDate(d.Raw())
}

func (d *NSDate) TimeIntervalSinceNow() float64 {
	return shim.Current().DateTimeIntervalSinceNow(d.Raw())
}

func (d *NSDate) TimeIntervalSinceDate(other NSDateKind) float64 {
	return shim.Current().DateTimeIntervalSinceDate(d.Raw(), other.Raw())
}

// Time converts d to a UTC time.Time rounded to the microsecond.
func (d *NSDate) Time() time.Time {
	return time.UnixMicro(int64(math.Round(d.TimeIntervalSince1970() * 1e6))).UTC()
}
