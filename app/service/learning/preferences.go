package learning

import "fieldbot/app/model"

const preferenceThreshold = 0.7

// learnPreferences estimates per-user preferences from their satisfied
// interactions. A preference is only reported once its confidence crosses the
// threshold; topic preferences are always reported when any exist.
func learnPreferences(interactions []model.InteractionRecord) (map[string]model.UserPreferenceModel, bool) {
	byUser := make(map[string][]model.InteractionRecord)
	order := []string{}
	for _, rec := range interactions {
		if rec.UserID == "" {
			continue
		}
		if _, seen := byUser[rec.UserID]; !seen {
			order = append(order, rec.UserID)
		}
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	preferences := make(map[string]model.UserPreferenceModel, len(byUser))
	updated := false

	for _, userID := range order {
		pref := estimatePreferences(byUser[userID])
		if pref.CommunicationStyle != "" || pref.InformationDensity != "" || pref.ResponseLength != "" {
			updated = true
		}
		if pref.CommunicationStyle == "" && pref.InformationDensity == "" &&
			pref.ResponseLength == "" && len(pref.TopicPreferences) == 0 {
			continue
		}
		preferences[userID] = pref
	}

	return preferences, updated
}

func estimatePreferences(records []model.InteractionRecord) model.UserPreferenceModel {
	satisfied := make([]model.InteractionRecord, 0, len(records))
	topics := []string{}

	for _, rec := range records {
		if sat, ok := rec.Satisfaction(); ok && sat > 3 {
			satisfied = append(satisfied, rec)
		}
		topics = append(topics, rec.Topics...)
	}

	out := model.UserPreferenceModel{
		TopicPreferences: dedupe(topics),
	}

	n := len(satisfied)
	// shrinkage keeps tiny samples below the reporting threshold
	out.Confidence = float64(n) / float64(n+3)
	if out.Confidence <= preferenceThreshold {
		return out
	}

	lengthSum := 0
	engagementSum := 0.0
	for _, rec := range satisfied {
		lengthSum += rec.ResponseLength
		engagementSum += rec.EngagementScore
	}
	avgLength := float64(lengthSum) / float64(n)
	avgEngagement := engagementSum / float64(n)

	switch {
	case avgLength < 150:
		out.ResponseLength = "short"
	case avgLength > 400:
		out.ResponseLength = "detailed"
	default:
		out.ResponseLength = "medium"
	}

	if avgEngagement > 0.6 {
		out.InformationDensity = "high"
	} else {
		out.InformationDensity = "low"
	}

	if avgLength > 300 {
		out.CommunicationStyle = "formal"
	} else {
		out.CommunicationStyle = "casual"
	}

	return out
}
