package spotify

import "cardbox/internal/textutil"

// Fallback strings used when the catalog omits a field; the frontend shows
// these verbatim.
const (
	unknownArtist    = "Unknown Artist"
	unknownAlbum     = "Unknown Album"
	unknownOwner     = "Unknown Owner"
	unknownPlaylist  = "Unknown Playlist"
	unknownTrack     = "Unknown Track"
	unknownPublisher = "Unknown Publisher"
	unknownEpisode   = "Unknown Episode"
	unknownAuthor    = "Unknown Author"
	unknownAudiobook = "Unknown Audiobook"
)

type searchResponse struct {
	Albums     *itemList[albumItem]     `json:"albums"`
	Playlists  *itemList[playlistItem]  `json:"playlists"`
	Tracks     *itemList[trackItem]     `json:"tracks"`
	Episodes   *itemList[episodeItem]   `json:"episodes"`
	Audiobooks *itemList[audiobookItem] `json:"audiobooks"`
}

type itemList[T any] struct {
	Items []T `json:"items"`
}

type image struct {
	URL string `json:"url"`
}

type namedEntity struct {
	Name string `json:"name"`
}

type albumItem struct {
	Artists []namedEntity `json:"artists"`
	Name    string        `json:"name"`
	URI     string        `json:"uri"`
	Images  []image       `json:"images"`
}

type playlistItem struct {
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []image `json:"images"`
}

type trackItem struct {
	Artists []namedEntity `json:"artists"`
	Name    string        `json:"name"`
	URI     string        `json:"uri"`
	Album   struct {
		Images []image `json:"images"`
	} `json:"album"`
}

type episodeItem struct {
	Show struct {
		Publisher string `json:"publisher"`
	} `json:"show"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []image `json:"images"`
}

type audiobookItem struct {
	Authors []namedEntity `json:"authors"`
	Name    string        `json:"name"`
	URI     string        `json:"uri"`
	Images  []image       `json:"images"`
}

// normalize converts the type-specific result shape into summaries. Every
// string field is cleansed of the row-store separator.
func (r searchResponse) normalize(mediaType string) []Summary {
	switch mediaType {
	case TypeAlbum:
		if r.Albums == nil {
			return []Summary{}
		}
		out := make([]Summary, 0, len(r.Albums.Items))
		for _, item := range r.Albums.Items {
			out = append(out, newSummary(firstName(item.Artists), unknownArtist, item.Name, unknownAlbum, item.URI, firstImage(item.Images)))
		}
		return out
	case TypePlaylist:
		if r.Playlists == nil {
			return []Summary{}
		}
		out := make([]Summary, 0, len(r.Playlists.Items))
		for _, item := range r.Playlists.Items {
			out = append(out, newSummary(item.Owner.DisplayName, unknownOwner, item.Name, unknownPlaylist, item.URI, firstImage(item.Images)))
		}
		return out
	case TypeTrack:
		if r.Tracks == nil {
			return []Summary{}
		}
		out := make([]Summary, 0, len(r.Tracks.Items))
		for _, item := range r.Tracks.Items {
			out = append(out, newSummary(firstName(item.Artists), unknownArtist, item.Name, unknownTrack, item.URI, firstImage(item.Album.Images)))
		}
		return out
	case TypeEpisode:
		if r.Episodes == nil {
			return []Summary{}
		}
		out := make([]Summary, 0, len(r.Episodes.Items))
		for _, item := range r.Episodes.Items {
			out = append(out, newSummary(item.Show.Publisher, unknownPublisher, item.Name, unknownEpisode, item.URI, firstImage(item.Images)))
		}
		return out
	case TypeAudiobook:
		if r.Audiobooks == nil {
			return []Summary{}
		}
		out := make([]Summary, 0, len(r.Audiobooks.Items))
		for _, item := range r.Audiobooks.Items {
			out = append(out, newSummary(firstName(item.Authors), unknownAuthor, item.Name, unknownAudiobook, item.URI, firstImage(item.Images)))
		}
		return out
	default:
		return []Summary{}
	}
}

func newSummary(artist, artistFallback, name, nameFallback, uri, art string) Summary {
	if artist == "" {
		artist = artistFallback
	}
	if name == "" {
		name = nameFallback
	}
	return Summary{
		AlbumArtist: textutil.StripDelimiter(artist),
		AlbumName:   textutil.StripDelimiter(name),
		AlbumURI:    textutil.StripDelimiter(uri),
		AlbumArt:    textutil.StripDelimiter(art),
	}
}

func firstName(entities []namedEntity) string {
	if len(entities) == 0 {
		return ""
	}
	return entities[0].Name
}

func firstImage(images []image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
