package wm

// ClientID is a generation-checked handle into the client arena. The zero
// value means "no client"; a stale ID (its slot reused) resolves to nil
// rather than to the new occupant.
type ClientID struct {
	idx uint32
	gen uint32
}

// IsZero reports whether the ID refers to no client.
func (id ClientID) IsZero() bool { return id.gen == 0 }

type arenaSlot struct {
	client Client
	gen    uint32
	live   bool
}

// arena owns every Client. Desktops hold ClientIDs only, so a client can be
// unlinked from one desktop and linked into another without copying, and a
// dangling ID after removal is harmless.
type arena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func (a *arena) alloc(c Client) ClientID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	s.client = c
	s.live = true
	a.live++
	return ClientID{idx: idx, gen: s.gen}
}

// get resolves an ID, returning nil for the zero ID, a released slot, or a
// stale generation.
func (a *arena) get(id ClientID) *Client {
	if id.IsZero() || id.idx >= uint32(len(a.slots)) {
		return nil
	}
	s := &a.slots[id.idx]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return &s.client
}

func (a *arena) release(id ClientID) {
	if a.get(id) == nil {
		return
	}
	s := &a.slots[id.idx]
	s.live = false
	s.client = Client{}
	a.free = append(a.free, id.idx)
	a.live--
}

func (a *arena) len() int { return a.live }
