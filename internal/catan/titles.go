package catan

import "github.com/lukev/catan2p/internal/rules"

// longestRoadLength computes the longest simple-edge path through p's
// owned road edges, where a path may not pass through a vertex owned by
// an opponent (§4.7.z). It runs a DFS from every owned edge, tracking the
// visited-edge set, and returns the maximum edge count reached.
func longestRoadLength(s *State, p *Player) int {
	if len(p.Roads) == 0 {
		return 0
	}

	// adjacency: vertex -> owned edges incident to it, excluding
	// vertices owned by the opponent (a cut point).
	opp := s.Opponent(p.ID)
	adjEdges := make(map[int][]int)
	for _, e := range p.Roads {
		edge := s.Board.GetEdge(e)
		for _, v := range [2]int{edge.V1, edge.V2} {
			if opp.OwnsVertex(v) {
				continue
			}
			adjEdges[v] = append(adjEdges[v], e)
		}
	}

	edgeEndpoints := make(map[int][2]int, len(p.Roads))
	for _, e := range p.Roads {
		edge := s.Board.GetEdge(e)
		edgeEndpoints[e] = [2]int{edge.V1, edge.V2}
	}

	best := 0
	visited := make(map[int]bool, len(p.Roads))

	var dfs func(v, length int)
	dfs = func(v, length int) {
		if length > best {
			best = length
		}
		for _, e := range adjEdges[v] {
			if visited[e] {
				continue
			}
			visited[e] = true
			ends := edgeEndpoints[e]
			next := ends[0]
			if next == v {
				next = ends[1]
			}
			dfs(next, length+1)
			visited[e] = false
		}
	}

	for _, e := range p.Roads {
		ends := edgeEndpoints[e]
		visited[e] = true
		dfs(ends[0], 1)
		dfs(ends[1], 1)
		visited[e] = false
	}

	return best
}

// recomputeLongestRoad re-derives each player's LongestRoad length and
// applies the §4.7.z ownership/tie-break policy, moving the title's VP
// between players directly on s.
func recomputeLongestRoad(s *State) {
	lengths := make([]int, len(s.Players))
	best := -1
	for i, p := range s.Players {
		lengths[i] = longestRoadLength(s, p)
		p.LongestRoad = lengths[i]
		if lengths[i] > best {
			best = lengths[i]
		}
	}

	if best < rules.MinLongestRoad {
		if s.LongestRoadOwner != none {
			s.Players[s.LongestRoadOwner].VisibleVP -= rules.LongestRoadVP
		}
		s.LongestRoadOwner = none
		s.LongestRoadLength = 0
		return
	}

	var tied []int
	for i, l := range lengths {
		if l == best {
			tied = append(tied, i)
		}
	}

	if len(tied) == 1 {
		newOwner := tied[0]
		if s.LongestRoadOwner != newOwner {
			if s.LongestRoadOwner != none {
				s.Players[s.LongestRoadOwner].VisibleVP -= rules.LongestRoadVP
			}
			s.Players[newOwner].VisibleVP += rules.LongestRoadVP
			s.LongestRoadOwner = newOwner
		}
		s.LongestRoadLength = best
		return
	}

	// Tie for best length >= minimum: current owner keeps it if still
	// tied for best and >= minimum; otherwise the title is vacant.
	stillHolds := false
	for _, t := range tied {
		if t == s.LongestRoadOwner {
			stillHolds = true
		}
	}
	if !stillHolds && s.LongestRoadOwner != none {
		s.Players[s.LongestRoadOwner].VisibleVP -= rules.LongestRoadVP
		s.LongestRoadOwner = none
		s.LongestRoadLength = 0
		return
	}
	if stillHolds {
		s.LongestRoadLength = best
	}
}

// recomputeLargestArmy applies the identical tie-break policy to spent
// knight counts, minimum threshold 3 (§4.7.z).
func recomputeLargestArmy(s *State) {
	sizes := make([]int, len(s.Players))
	best := -1
	for i, p := range s.Players {
		sizes[i] = p.DevCards.Spent[rules.Knight]
		p.ArmySize = sizes[i]
		if sizes[i] > best {
			best = sizes[i]
		}
	}

	if best < rules.MinLargestArmy {
		if s.LargestArmyOwner != none {
			s.Players[s.LargestArmyOwner].VisibleVP -= rules.LargestArmyVP
		}
		s.LargestArmyOwner = none
		s.LargestArmySize = 0
		return
	}

	var tied []int
	for i, sz := range sizes {
		if sz == best {
			tied = append(tied, i)
		}
	}

	if len(tied) == 1 {
		newOwner := tied[0]
		if s.LargestArmyOwner != newOwner {
			if s.LargestArmyOwner != none {
				s.Players[s.LargestArmyOwner].VisibleVP -= rules.LargestArmyVP
			}
			s.Players[newOwner].VisibleVP += rules.LargestArmyVP
			s.LargestArmyOwner = newOwner
		}
		s.LargestArmySize = best
		return
	}

	stillHolds := false
	for _, t := range tied {
		if t == s.LargestArmyOwner {
			stillHolds = true
		}
	}
	if !stillHolds && s.LargestArmyOwner != none {
		s.Players[s.LargestArmyOwner].VisibleVP -= rules.LargestArmyVP
		s.LargestArmyOwner = none
		s.LargestArmySize = 0
		return
	}
	if stillHolds {
		s.LargestArmySize = best
	}
}

// checkVictory applies §4.7.w after every transition: once any player
// reaches the victory threshold, the player with the highest total wins; a
// tie for the highest total resolves to the lower player id.
func checkVictory(s *State) {
	bestVP := -1
	for _, p := range s.Players {
		if vp := p.TotalVP(); vp > bestVP {
			bestVP = vp
		}
	}
	if bestVP < rules.VictoryPointsToWin {
		return
	}
	winner := none
	for _, p := range s.Players {
		if p.TotalVP() == bestVP {
			winner = p.ID
			break
		}
	}
	s.GameOver = true
	s.Winner = winner
	s.PendingTrade = nil
	s.PendingDiscards = make(map[int]int)
	s.DiscardQueue = nil
	s.SubPhase = Main
}
