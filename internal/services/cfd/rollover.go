package cfd

import "time"

const (
	NetworkMainnet = "mainnet"
	NetworkRegtest = "regtest"
)

const expiryHourUTC = 15

// NextExpiry returns the expiry timestamp for a contract opened at ts.
//
// On mainnet contracts expire Sunday 15:00 UTC. If ts falls inside the
// rollover window (Friday 15:00 to Sunday 15:00 UTC) or on a Sunday, the
// expiry is pushed to the Sunday of the following week. On every other
// network contracts expire at the next midnight UTC, or the midnight after
// when ts is already inside the rollover window.
func NextExpiry(ts time.Time, network string) time.Time {
	ts = ts.UTC()

	if network == NetworkMainnet {
		days := 7 - weekdayFromMonday(ts.Weekday())
		if EligibleForRollover(ts, network) || ts.Weekday() == time.Sunday {
			days += 7
		}

		expiry := time.Date(ts.Year(), ts.Month(), ts.Day(), expiryHourUTC, 0, 0, 0, time.UTC)
		return expiry.AddDate(0, 0, days)
	}

	days := 1
	if EligibleForRollover(ts, network) {
		days = 2
	}
	midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, days)
}

// EligibleForRollover reports whether a contract expiring at ts would already
// be rolled over instead of settled.
func EligibleForRollover(ts time.Time, network string) bool {
	ts = ts.UTC()

	if network == NetworkMainnet {
		switch ts.Weekday() {
		case time.Friday:
			return ts.Hour() >= expiryHourUTC
		case time.Saturday:
			return true
		case time.Sunday:
			return ts.Hour() < expiryHourUTC
		default:
			return false
		}
	}

	midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(ts) < 8*time.Hour
}

func weekdayFromMonday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
