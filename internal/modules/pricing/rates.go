package pricing

// starTierRates is the authoritative rate table for star-tier pricing (JPY).
var starTierRates = map[int]RoomRates{
	3: {Single: 6000, Double: 7000, Triple: 9000, Breakfast: 1500},
	4: {Single: 10000, Double: 12000, Triple: 15000, Breakfast: 2000},
	5: {Single: 18000, Double: 22000, Triple: 27000, Breakfast: 3500},
}

// StarTierRates reports ok=false for an unknown tier.
func StarTierRates(stars int) (RoomRates, bool) {
	r, ok := starTierRates[stars]
	return r, ok
}

func (r RoomRates) forType(t RoomType) int64 {
	switch t {
	case RoomSingle:
		return r.Single
	case RoomDouble:
		return r.Double
	case RoomTriple:
		return r.Triple
	}
	return 0
}

// roomsFor derives counts from participants when no explicit counts are given.
func roomsFor(req CalculationRequest) RoomCounts {
	if req.RoomCounts != nil {
		return *req.RoomCounts
	}
	p := req.Participants
	switch req.RoomType {
	case RoomSingle:
		return RoomCounts{Single: p}
	case RoomDouble:
		return RoomCounts{Double: ceilDiv(p, 2)}
	case RoomTriple:
		return RoomCounts{Triple: ceilDiv(p, 3)}
	}
	return RoomCounts{}
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
