package signals

import (
	"time"

	"github.com/wonny/ssq/internal/contracts"
)

var baseDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// draw builds a record whose date grows with seq
func draw(seq, special int, primary ...int) contracts.DrawRecord {
	r := contracts.DrawRecord{
		Seq:     seq,
		Code:    "2024" + string(rune('A'+seq)),
		Date:    baseDate.AddDate(0, 0, 2*seq),
		Special: contracts.SpecialBall(special),
	}
	for i, p := range primary {
		r.Primary[i] = contracts.PrimaryBall(p)
	}
	return r
}
