package probe

import (
	"net/http"

	"github.com/tidwall/gjson"
)

// requiredPaths must be present in every successful wrapped payload.
var requiredPaths = []string{
	"data.user",
	"data.scores",
	"data.activity.events.total",
	"data.credentials.byCategory",
	"data.yearInReview.year",
	"data.yearInReview.level.name",
	"data.metadata.dataSources",
	"data.metadata.dataSources.profile",
}

// classify maps a wrapped response to an outcome. A 200 that lacks the
// envelope or any required field is malformed.
func classify(status int, body []byte) (Outcome, string) {
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return OutcomeNotFound, ""
	default:
		return OutcomeFailed, gjson.GetBytes(body, "message").String()
	}

	if !gjson.ValidBytes(body) {
		return OutcomeMalformed, "invalid JSON"
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("success").Bool() {
		return OutcomeMalformed, "success flag not set"
	}
	for _, p := range requiredPaths {
		if !doc.Get(p).Exists() {
			return OutcomeMalformed, "missing " + p
		}
	}
	return OutcomeOK, ""
}

// healthy reports whether a health response is a success envelope.
func healthy(status int, body []byte) bool {
	return status == http.StatusOK && gjson.GetBytes(body, "success").Bool() &&
		gjson.GetBytes(body, "data.status").String() == "healthy"
}
