package loyalty

import "time"

// Clock supplies "now" to everything that stamps or windows time. Production
// code leaves it nil, which means time.Now; tests pin it to a fixed instant.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
