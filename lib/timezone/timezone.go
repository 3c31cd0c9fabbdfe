package timezone

import "time"

// the hiscores roll over on the game's server time, which is UTC.
// pinning this here keeps snapshot dates stable no matter where the
// harvester happens to run.
var Location = time.UTC

func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current snapshot date as YYYY-MM-DD.
func Today() string {
	return Now().Format("2006-01-02")
}
