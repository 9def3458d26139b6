package wm

import "github.com/Cloudef/monsterwm-xcb/internal/layout"

// Desktop is one workspace: an ordered client sequence plus its focus pair
// and per-desktop layout state. The order is the tiling order; index 0 is
// the master slot.
type Desktop struct {
	Mode       layout.Mode
	MasterSize int
	Growth     int
	ShowPanel  bool

	clients   []ClientID
	current   ClientID
	prevFocus ClientID
}

// attach links a new client, at the tail when aside is set, else as the new
// master. The caller decides whether it also becomes current.
func (d *Desktop) attach(id ClientID, aside bool) {
	if aside {
		d.clients = append(d.clients, id)
		return
	}
	d.clients = append([]ClientID{id}, d.clients...)
}

// detach unlinks id preserving order; it does not touch the focus pair.
func (d *Desktop) detach(id ClientID) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	d.clients = append(d.clients[:i], d.clients[i+1:]...)
	return true
}

func (d *Desktop) index(id ClientID) int {
	for i, v := range d.clients {
		if v == id {
			return i
		}
	}
	return -1
}

func (d *Desktop) head() ClientID {
	if len(d.clients) == 0 {
		return ClientID{}
	}
	return d.clients[0]
}

// after returns the cyclic successor of id, or zero if id is absent.
func (d *Desktop) after(id ClientID) ClientID {
	i := d.index(id)
	if i < 0 {
		return ClientID{}
	}
	return d.clients[(i+1)%len(d.clients)]
}

// before returns the cyclic predecessor of id. With fewer than two clients
// there is no predecessor and it returns zero, which keeps the focus
// fallback chain terminating at the head.
func (d *Desktop) before(id ClientID) ClientID {
	n := len(d.clients)
	if n < 2 {
		return ClientID{}
	}
	i := d.index(id)
	if i <= 0 {
		return d.clients[n-1]
	}
	return d.clients[i-1]
}
