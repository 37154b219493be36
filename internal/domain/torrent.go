package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Quality is the coarse video-quality tier derived from release title keywords.
type Quality string

const (
	Quality4K      Quality = "4K"
	Quality1080p   Quality = "1080p"
	Quality720p    Quality = "720p"
	Quality480p    Quality = "480p"
	QualityHDTV    Quality = "HDTV"
	QualityWEBRip  Quality = "WEBRip"
	QualityWEBDL   Quality = "WEB-DL"
	QualityBluRay  Quality = "BluRay"
	QualityDVDRip  Quality = "DVDRip"
	QualityUnknown Quality = "Unknown"
)

type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortBySeeders   SortBy = "seeders"
	SortBySize      SortBy = "size"
	SortByDate      SortBy = "date"
)

func NormalizeSortBy(raw string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(raw))) {
	case SortBySeeders:
		return SortBySeeders
	case SortBySize:
		return SortBySize
	case SortByDate:
		return SortByDate
	default:
		return SortByRelevance
	}
}

type SeasonType string

const (
	SeasonTypeAny            SeasonType = ""
	SeasonTypeFullSeason     SeasonType = "full_season"
	SeasonTypeSingleEpisode  SeasonType = "single_episode"
	SeasonTypeCompleteSeries SeasonType = "complete_series"
)

func NormalizeSeasonType(raw string) SeasonType {
	switch SeasonType(strings.ToLower(strings.TrimSpace(raw))) {
	case SeasonTypeFullSeason:
		return SeasonTypeFullSeason
	case SeasonTypeSingleEpisode:
		return SeasonTypeSingleEpisode
	case SeasonTypeCompleteSeries:
		return SeasonTypeCompleteSeries
	default:
		return SeasonTypeAny
	}
}

// CategoryRef is an indexer category identifier. Prowlarr reports categories
// either as bare numbers or as objects carrying an "id" field, depending on
// the upstream indexer definition, so both forms decode into the same shape.
type CategoryRef struct {
	ID int `json:"id"`
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		c.ID = obj.ID
		return nil
	}
	return json.Unmarshal(trimmed, &c.ID)
}

// RawCandidate is a single release record as returned by the indexer
// aggregator, before normalization.
type RawCandidate struct {
	Title       string        `json:"title"`
	Indexer     string        `json:"indexer"`
	Size        int64         `json:"size"`
	Seeders     int           `json:"seeders"`
	Leechers    int           `json:"leechers"`
	MagnetURL   string        `json:"magnetUrl"`
	DownloadURL string        `json:"downloadUrl"`
	InfoURL     string        `json:"infoUrl"`
	PublishDate string        `json:"publishDate"`
	Categories  []CategoryRef `json:"categories"`
	GUID        string        `json:"guid"`
}

// Torrent is the canonical normalized result. It exists only when at least
// one of MagnetLink/DownloadURL is non-empty, and is immutable after
// normalization.
type Torrent struct {
	Title       string  `json:"title"`
	Indexer     string  `json:"indexer"`
	Size        string  `json:"size"`
	SizeBytes   int64   `json:"size_bytes"`
	Seeders     int     `json:"seeders"`
	Leechers    int     `json:"leechers"`
	MagnetLink  string  `json:"magnet_link"`
	DownloadURL string  `json:"download_url"`
	InfoURL     string  `json:"info_url"`
	PublishDate string  `json:"publishDate"`
	Category    string  `json:"category"`
	Quality     Quality `json:"quality"`
	GUID        string  `json:"guid"`
}

// Metadata is the descriptive record returned by the metadata collaborator.
type Metadata struct {
	Title    string `json:"title"`
	Year     string `json:"year"`
	Overview string `json:"overview"`
	Poster   string `json:"poster,omitempty"`
	TMDBID   int    `json:"tmdb_id,omitempty"`
}

// EnrichedTorrent is a Torrent plus descriptive metadata. Metadata fields
// carry explicit "unknown" fallbacks when no match was found.
type EnrichedTorrent struct {
	Torrent
	TMDBTitle    string `json:"tmdb_title"`
	TMDBYear     string `json:"tmdb_year"`
	TMDBOverview string `json:"tmdb_overview"`
	TMDBPoster   string `json:"tmdb_poster,omitempty"`
	TMDBID       int    `json:"tmdb_id,omitempty"`
	ContentType  string `json:"content_type"`
}

// FilterSpec carries the user-supplied filters for one search request. The
// numeric-ish fields arrive as strings from the UI selects and are parsed
// where they are applied; an empty string means "not set".
type FilterSpec struct {
	Quality    string `json:"quality,omitempty"`
	MinSize    string `json:"size,omitempty"`
	MinSeeders string `json:"seeders,omitempty"`
	SeasonType string `json:"seasonType,omitempty"`
	Category   string `json:"category,omitempty"`
	SortBy     string `json:"sortBy,omitempty"`
}

type SearchRequest struct {
	Query   string     `json:"query"`
	Filters FilterSpec `json:"filters"`
}

type SearchResponse struct {
	Results []EnrichedTorrent `json:"results"`
	Count   int               `json:"count"`
}

type DownloadRequest struct {
	Magnet   string `json:"magnet"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type DownloadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
