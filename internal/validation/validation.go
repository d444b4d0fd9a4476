// Package validation holds the pure input validators shared by the ledger,
// challenge, and report services. Each form-level check returns a single
// Result mapping field names to messages instead of scattering per-field
// flags through the callers.
package validation

// Result maps a field name to its validation message. An empty Result
// means the input passed.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r) == 0 }

// First returns the message of the first failing field in the order the
// fields were checked, using the given precedence list.
func (r Result) First(order ...string) string {
	for _, f := range order {
		if msg, ok := r[f]; ok {
			return msg
		}
	}
	for _, msg := range r {
		return msg
	}
	return ""
}

// DateParts validates a decomposed date. Checks run year, then month, then
// day, and stop at the first failure so the first failing field wins.
// Day is only range-checked against 1-31; February 31 passes. The original
// application never validated per-month day counts and downstream date
// arithmetic tolerates the overshoot, so the looser check is kept.
func DateParts(year, month, day int) Result {
	r := Result{}
	if year == 0 {
		r["year"] = "Year must be a number."
		return r
	}
	if month < 1 || month > 12 {
		r["month"] = "Month must be a number between 1 and 12."
		return r
	}
	if day < 1 || day > 31 {
		r["day"] = "Day must be a number between 1 and 31."
		return r
	}
	return r
}

// YearMonth validates a year-month pair, year first.
func YearMonth(year, month int) Result {
	r := Result{}
	if year == 0 {
		r["year"] = "Year must be a number."
		return r
	}
	if month < 1 || month > 12 {
		r["month"] = "Month must be a number between 1 and 12."
		return r
	}
	return r
}

// Year validates a bare year.
func Year(year int) Result {
	r := Result{}
	if year == 0 {
		r["year"] = "Year must be a number."
	}
	return r
}

// IsNumeric reports whether s is empty (no input yet) or consists only of
// decimal digits. It gates numeric form fields before parsing.
func IsNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
