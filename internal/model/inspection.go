package model

import "time"

// Inspection は物件の点検記録を表す。
// 1物件につき1日1件で、同じ日に記録すると上書きされる。
type Inspection struct {
	PropertyID int
	Day        time.Time
	Report     string
	RecordedAt time.Time
}
