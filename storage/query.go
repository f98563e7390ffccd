package storage

import (
	"sort"
	"strings"
)

// Filter returns the videos whose title or any tag contains term,
// case-insensitively. An empty term matches everything. Input order is
// preserved.
func Filter(videos []LikedVideo, term string) []LikedVideo {
	if term == "" {
		out := make([]LikedVideo, len(videos))
		copy(out, videos)
		return out
	}

	needle := strings.ToLower(term)
	var out []LikedVideo
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), needle) {
			out = append(out, v)
			continue
		}
		for _, tag := range v.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// Sort returns a sorted copy of videos. The natural direction for each
// option matches the view it came from: added order and publish date are
// newest first, counts are highest first, title is A-to-Z. SortAscending
// inverts the comparison, so equal keys keep their cache order in both
// directions.
func Sort(videos []LikedVideo, option SortOption, order SortOrder) []LikedVideo {
	sorted := make([]LikedVideo, len(videos))
	copy(sorted, videos)

	var less func(a, b LikedVideo) bool
	switch option {
	case SortByTitle:
		less = func(a, b LikedVideo) bool { return a.Title < b.Title }
	case SortByViewCount:
		less = func(a, b LikedVideo) bool { return a.ViewCount > b.ViewCount }
	case SortByLikeCount:
		less = func(a, b LikedVideo) bool { return a.LikeCount > b.LikeCount }
	case SortByLikeViewRatio:
		less = func(a, b LikedVideo) bool { return likeViewRatio(a) > likeViewRatio(b) }
	case SortByPublishDate:
		less = func(a, b LikedVideo) bool { return a.PublishedAt.After(b.PublishedAt) }
	default:
		// Cache order already is liked order; every position is its own
		// key, so a plain reversal is the ascending view.
		if order == SortAscending {
			for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
		return sorted
	}

	if order == SortAscending {
		natural := less
		less = func(a, b LikedVideo) bool { return natural(b, a) }
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func likeViewRatio(v LikedVideo) float64 {
	if v.ViewCount == 0 {
		return 0
	}
	return float64(v.LikeCount) / float64(v.ViewCount)
}

// Page slices out one fixed-size page, 1-based. Out-of-range pages return
// an empty slice.
func Page(videos []LikedVideo, page, perPage int) []LikedVideo {
	if page < 1 || perPage < 1 {
		return []LikedVideo{}
	}
	start := (page - 1) * perPage
	if start >= len(videos) {
		return []LikedVideo{}
	}
	end := start + perPage
	if end > len(videos) {
		end = len(videos)
	}
	return videos[start:end]
}

// PageCount returns the number of pages needed to show all videos.
func PageCount(total, perPage int) int {
	if perPage < 1 || total < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
