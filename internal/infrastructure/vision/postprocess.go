package vision

import (
	"image"
	"math"
	"sort"

	"facecrop/internal/domain/entity"
)

// groupEps допуск при сравнении окон, как в groupRectangles OpenCV
const groupEps = 0.2

// candidate сырое окно детектора
type candidate struct {
	rect  image.Rectangle
	score float64
}

// cluster группа похожих окон
type cluster struct {
	rect  image.Rectangle
	score float64
	count int
}

// finalize приводит сырые окна к итоговому набору областей
// согласно режиму поиска, подавлению и порядку масштабов.
// Все области обрезаются по bounds.
func finalize(raw []candidate, params entity.DetectionParams, bounds image.Rectangle) []entity.Region {
	var clusters []cluster
	if params.SearchMode == entity.SearchDefault {
		clusters = make([]cluster, 0, len(raw))
		for _, c := range raw {
			clusters = append(clusters, cluster{rect: c.rect, score: c.score, count: 1})
		}
	} else {
		clusters = group(raw, params.Suppression)
	}

	switch params.SearchMode {
	case entity.SearchSingle:
		clusters = strongest(clusters)
	case entity.SearchNoOverlap:
		clusters = dropOverlaps(clusters)
	}

	sortByScale(clusters, params.ScalingMode)

	regions := make([]entity.Region, 0, len(clusters))
	for _, c := range clusters {
		r := c.rect.Intersect(bounds)
		if r.Empty() {
			continue
		}
		regions = append(regions, entity.RegionFromRect(r))
	}
	return regions
}

// similar повторяет критерий SimilarRects из OpenCV
func similar(a, b image.Rectangle) bool {
	delta := groupEps * float64(minInt(a.Dx(), b.Dx())+minInt(a.Dy(), b.Dy())) * 0.5
	return math.Abs(float64(a.Min.X-b.Min.X)) <= delta &&
		math.Abs(float64(a.Min.Y-b.Min.Y)) <= delta &&
		math.Abs(float64(a.Max.X-b.Max.X)) <= delta &&
		math.Abs(float64(a.Max.Y-b.Max.Y)) <= delta
}

// group объединяет похожие окна и усредняет их.
// Кластеры, в которых меньше minNeighbors окон, отбрасываются.
func group(raw []candidate, minNeighbors int) []cluster {
	parent := make([]int, len(raw))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range raw {
		for j := i + 1; j < len(raw); j++ {
			if similar(raw[i].rect, raw[j].rect) {
				parent[find(j)] = find(i)
			}
		}
	}

	type acc struct {
		x0, y0, x1, y1 int
		score          float64
		count          int
		first          int
	}
	byRoot := make(map[int]*acc)
	var roots []int
	for i, c := range raw {
		root := find(i)
		a, ok := byRoot[root]
		if !ok {
			a = &acc{first: i}
			byRoot[root] = a
			roots = append(roots, root)
		}
		a.x0 += c.rect.Min.X
		a.y0 += c.rect.Min.Y
		a.x1 += c.rect.Max.X
		a.y1 += c.rect.Max.Y
		a.score += c.score
		a.count++
	}

	out := make([]cluster, 0, len(roots))
	for _, root := range roots {
		a := byRoot[root]
		if a.count < minNeighbors {
			continue
		}
		n := a.count
		out = append(out, cluster{
			rect:  image.Rect(divRound(a.x0, n), divRound(a.y0, n), divRound(a.x1, n), divRound(a.y1, n)),
			score: a.score,
			count: n,
		})
	}
	return out
}

// strongest оставляет один кластер с наибольшим весом
func strongest(clusters []cluster) []cluster {
	if len(clusters) == 0 {
		return clusters
	}
	best := 0
	for i, c := range clusters[1:] {
		if better(c, clusters[best]) {
			best = i + 1
		}
	}
	return []cluster{clusters[best]}
}

// dropOverlaps жадно оставляет сильнейшие кластеры без пересечений
func dropOverlaps(clusters []cluster) []cluster {
	ordered := append([]cluster(nil), clusters...)
	sort.SliceStable(ordered, func(i, j int) bool { return better(ordered[i], ordered[j]) })

	kept := make([]cluster, 0, len(ordered))
	for _, c := range ordered {
		overlaps := false
		for _, k := range kept {
			if c.rect.Overlaps(k.rect) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}

func better(a, b cluster) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return area(a.rect) > area(b.rect)
}

func sortByScale(clusters []cluster, mode entity.ScalingMode) {
	sort.SliceStable(clusters, func(i, j int) bool {
		if mode == entity.ScaleLargerToSmaller {
			return area(clusters[i].rect) > area(clusters[j].rect)
		}
		return area(clusters[i].rect) < area(clusters[j].rect)
	})
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

func divRound(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
