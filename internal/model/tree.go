package model

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// TreeNode is one node of a fitted CART tree. Exported fields so fitted
// trees serialize inside the artifact blob.
type TreeNode struct {
	Feature   int     // split feature index, valid when not a leaf
	Threshold float64 // go left when x[Feature] < Threshold
	Value     float64 // node output (G/H of the samples reaching the node)
	Left      *TreeNode
	Right     *TreeNode
}

// IsLeaf reports whether the node has no children.
func (n *TreeNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Tree is a fitted CART tree plus its per-feature split gains.
type Tree struct {
	Root  *TreeNode
	Gains []float64 // accumulated split gain per feature
}

// treeParams controls tree growth.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int // features considered per split; 0 means all
}

// minChildHessian guards the Newton denominator. Splits producing a child
// below it are not considered.
const minChildHessian = 1e-12

// fitTree grows a tree on pseudo-gradients. Each sample carries a gradient
// g and a hessian h; leaf (and node) values are sum(g)/sum(h), split gain is
// GL²/HL + GR²/HR - G²/H.
//
// Both ensemble variants reduce to this form: the forest fits g = w*y,
// h = w (node value becomes the weighted positive fraction, gain the
// weighted Gini gain), the boosted ensemble fits g = y-p, h = p(1-p)
// (Newton step leaves).
func fitTree(X [][]float64, g, h []float64, params treeParams, rng *rand.Rand) *Tree {
	nFeatures := len(X[0])
	tree := &Tree{Gains: make([]float64, nFeatures)}

	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}

	tree.Root = growNode(X, g, h, indices, 0, params, rng, tree.Gains)
	return tree
}

// growNode recursively grows the subtree for the given sample indices.
func growNode(X [][]float64, g, h []float64, indices []int, depth int, params treeParams, rng *rand.Rand, gains []float64) *TreeNode {
	var sumG, sumH float64
	for _, i := range indices {
		sumG += g[i]
		sumH += h[i]
	}

	node := &TreeNode{Value: nodeValue(sumG, sumH)}

	if depth >= params.maxDepth || len(indices) < params.minSamplesSplit {
		return node
	}

	feature, threshold, gain := bestSplit(X, g, h, indices, sumG, sumH, params, rng)
	if gain <= 0 {
		return node
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, i := range indices {
		if X[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	gains[feature] += gain
	node.Feature = feature
	node.Threshold = threshold
	node.Left = growNode(X, g, h, left, depth+1, params, rng, gains)
	node.Right = growNode(X, g, h, right, depth+1, params, rng, gains)
	return node
}

// bestSplit scans candidate features for the split with the highest gain.
// When params.maxFeatures is set, a random feature subset is considered
// (random-forest style); otherwise all features are scanned.
func bestSplit(X [][]float64, g, h []float64, indices []int, sumG, sumH float64, params treeParams, rng *rand.Rand) (feature int, threshold, gain float64) {
	nFeatures := len(X[0])

	candidates := make([]int, nFeatures)
	for j := range candidates {
		candidates[j] = j
	}
	if params.maxFeatures > 0 && params.maxFeatures < nFeatures {
		rng.Shuffle(nFeatures, func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})
		candidates = candidates[:params.maxFeatures]
		sort.Ints(candidates) // deterministic scan order for a given subset
	}

	parentScore := score(sumG, sumH)
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(indices))
	for _, j := range candidates {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][j] < X[order[b]][j]
		})

		var gl, hl float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			gl += g[i]
			hl += h[i]

			// Only split between distinct adjacent values.
			v, next := X[i][j], X[order[k+1]][j]
			if v == next {
				continue
			}

			gr := sumG - gl
			hr := sumH - hl
			if hl < minChildHessian || hr < minChildHessian {
				continue
			}

			mid := v + (next-v)/2
			if math.IsNaN(mid) {
				// midpoint of -Inf and a finite value; no usable threshold
				continue
			}

			splitGain := score(gl, hl) + score(gr, hr) - parentScore
			if splitGain > bestGain {
				bestGain = splitGain
				bestFeature = j
				bestThreshold = mid
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0
	}
	return bestFeature, bestThreshold, bestGain
}

func score(g, h float64) float64 {
	if h < minChildHessian {
		return 0
	}
	return g * g / h
}

func nodeValue(g, h float64) float64 {
	if h < minChildHessian {
		return 0
	}
	return g / h
}

// Predict returns the tree output for one row.
func (t *Tree) Predict(x []float64) float64 {
	node := t.Root
	for !node.IsLeaf() {
		if x[node.Feature] < node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// Contributions walks the decision path for one row, attributing each
// node-to-child change in value to the split feature. The returned base is
// the root value; base plus the summed contributions equals Predict(x).
func (t *Tree) Contributions(x []float64, contrib []float64) (base float64) {
	node := t.Root
	base = node.Value
	for !node.IsLeaf() {
		var child *TreeNode
		if x[node.Feature] < node.Threshold {
			child = node.Left
		} else {
			child = node.Right
		}
		contrib[node.Feature] += child.Value - node.Value
		node = child
	}
	return base
}
