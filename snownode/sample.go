// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snownode

import "github.com/luxfi/snowball/snowstate"

// selectNodeSample draws `amount` distinct member indices uniformly at
// random, excluding this node's own order, by rejection sampling. It
// terminates only when amount is strictly less than len(st.MemberIDs);
// config validation bounds k by len(members), not len(members) - 1.
func (n *Node) selectNodeSample(st *snowstate.State, amount int) map[int]struct{} {
	set := make(map[int]struct{}, amount)
	for len(set) < amount {
		choice := n.rng.Intn(len(st.MemberIDs))
		if choice == st.Order {
			continue
		}
		set[choice] = struct{}{}
	}
	return set
}
