package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		panic(err)
	}
}

// force timezone to municipality local time, the hosts the robot is
// deployed on have ended up in UTC more than once which shifts the
// harvest window and the dates written to case metadata
func Now() time.Time {
	return time.Now().In(Location)
}
