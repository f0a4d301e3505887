package flocking

// Snapshot is a copy of the flock state at a given frame. It shares no memory with the Flock.
type Snapshot struct {
	Frame  uint64  `json:"frame"`
	Arena  Extent  `json:"arena"`
	Agents []Agent `json:"agents"`
}

// Snapshot copies the current state.
func (f *Flock) Snapshot() Snapshot {
	return Snapshot{Frame: f.frame, Arena: f.arena, Agents: f.Agents()}
}

// OutsideFraction is the share of agents outside the playable region [border, size-border].
func (s Snapshot) OutsideFraction(border float64) float64 {
	if len(s.Agents) == 0 {
		return 0
	}
	outside := 0
	for _, a := range s.Agents {
		if !s.Arena.Inside(a.Position, border) {
			outside++
		}
	}
	return float64(outside) / float64(len(s.Agents))
}

// MaxSpeed is the highest agent speed in the snapshot.
func (s Snapshot) MaxSpeed() float64 {
	m := 0.0
	for _, a := range s.Agents {
		m = max(m, a.Speed())
	}
	return m
}

// Draw renders the snapshot the same way Flock.Draw renders live agents.
func (s Snapshot) Draw(r Renderer, style Style) error {
	_, err := drawAgents(r, s.Agents, style, make([]Vertex, 0, 3*len(s.Agents)))
	return err
}
