package boardgames

import "strings"

// Range limits for game attributes.
const (
	maxNameLength      = 500
	maxThumbnailLength = 1000
	minYear            = 1900
	maxYear            = 2100
	maxPlayerLimit     = 100
	maxPlayTimeLimit   = 1440
)

// ValidateAdd checks an add request and returns a field to message map for
// every violation.
func ValidateAdd(req AddGameRequest) map[string]string {
	fields := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Game name is required"
	} else if len(name) > maxNameLength {
		fields["name"] = "Game name must be at most 500 characters"
	}
	validateCommon(fields, req.ThumbnailURL, req.YearPublished,
		req.MinPlayers, req.MaxPlayers, req.MinPlayTimeMinutes, req.MaxPlayTimeMinutes)
	return fields
}

// ValidateUpdate checks a partial update request. A null name is allowed;
// a non-null name only has to respect the length limit because blank names
// are ignored by the update.
func ValidateUpdate(req UpdateGameRequest) map[string]string {
	fields := map[string]string{}
	if req.Name != nil && len(strings.TrimSpace(*req.Name)) > maxNameLength {
		fields["name"] = "Game name must be at most 500 characters"
	}
	validateCommon(fields, req.ThumbnailURL, req.YearPublished,
		req.MinPlayers, req.MaxPlayers, req.MinPlayTimeMinutes, req.MaxPlayTimeMinutes)
	return fields
}

func validateCommon(fields map[string]string, thumbnail *string, year, minPlayers, maxPlayers, minTime, maxTime *int) {
	if thumbnail != nil {
		t := strings.TrimSpace(*thumbnail)
		if len(t) > maxThumbnailLength {
			fields["thumbnailUrl"] = "Thumbnail URL must be at most 1000 characters"
		} else if t != "" && !strings.HasPrefix(t, "http://") && !strings.HasPrefix(t, "https://") {
			fields["thumbnailUrl"] = "Thumbnail URL must be blank or use http/https"
		}
	}
	if year != nil && (*year < minYear || *year > maxYear) {
		fields["yearPublished"] = "Year must be between 1900 and 2100"
	}
	if minPlayers != nil && (*minPlayers < 1 || *minPlayers > maxPlayerLimit) {
		fields["minPlayers"] = "Min players must be between 1 and 100"
	}
	if maxPlayers != nil && (*maxPlayers < 1 || *maxPlayers > maxPlayerLimit) {
		fields["maxPlayers"] = "Max players must be between 1 and 100"
	}
	if minPlayers != nil && maxPlayers != nil && *minPlayers > *maxPlayers {
		fields["minPlayers"] = "Min players must not exceed max players"
	}
	if minTime != nil && (*minTime < 1 || *minTime > maxPlayTimeLimit) {
		fields["minPlayTimeMinutes"] = "Min play time must be between 1 and 1440 minutes"
	}
	if maxTime != nil && (*maxTime < 1 || *maxTime > maxPlayTimeLimit) {
		fields["maxPlayTimeMinutes"] = "Max play time must be between 1 and 1440 minutes"
	}
	if minTime != nil && maxTime != nil && *minTime > *maxTime {
		fields["minPlayTimeMinutes"] = "Min play time must not exceed max play time"
	}
}

// blankToNil trims s and converts an empty result to nil, so blank optional
// URL fields normalize to absent.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
