package eventtracker

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
)

const (
	playKind  = "play"
	shareKind = "share"

	kindField                    = "kind"
	eventIDField                 = "eventID"
	creationDateField            = "creationDate"
	apiKeyField                  = "apiKey"
	appDomainField               = "appDomain"
	appNameField                 = "appName"
	appVersionField              = "appVersion"
	isProductionField            = "isProduction"
	latitudeField                = "latitude"
	longitudeField               = "longitude"
	refIDField                   = "refID"
	apiSessionIDField            = "apiSessionID"
	streamingField               = "streaming"
	viewTimeSecondsField         = "viewTimeSeconds"
	engagementOver75PercentField = "engagementOver75Percent"
	shareMethodField             = "shareMethod"
	customParamsField            = "customParams"
)

// Keys that ExtraParams cannot replace. Ambient identity fields other than apiKey and appDomain
// are deliberately absent.
var protectedFields = map[string]struct{}{ //nolint:gochecknoglobals
	kindField:                    {},
	eventIDField:                 {},
	creationDateField:            {},
	apiKeyField:                  {},
	appDomainField:               {},
	refIDField:                   {},
	apiSessionIDField:            {},
	streamingField:               {},
	viewTimeSecondsField:         {},
	engagementOver75PercentField: {},
	shareMethodField:             {},
	customParamsField:            {},
}

// eventBuilder turns PlayEvent and ShareEvent values into event records, using the configuration
// snapshot that is current when the event is tracked.
type eventBuilder struct {
	loggers ldlog.Loggers
}

func (b eventBuilder) buildPlay(snap *configSnapshot, e PlayEvent) (ldvalue.Value, error) {
	refID, apiSessionID, err := validateIdentifiers(e.RefID, e.APISessionID)
	if err != nil {
		return ldvalue.Null(), err
	}
	if math.IsNaN(e.ViewTimeSeconds) || math.IsInf(e.ViewTimeSeconds, 0) {
		return ldvalue.Null(), &InvalidEventError{Field: viewTimeSecondsField, Reason: "must be a finite number"}
	}
	if e.ViewTimeSeconds < 0 {
		return ldvalue.Null(), &InvalidEventError{Field: viewTimeSecondsField, Reason: "must not be negative"}
	}

	obj, err := b.newRecord(snap, playKind, e.ExtraParams)
	if err != nil {
		return ldvalue.Null(), err
	}
	obj.SetString(refIDField, refID).
		SetString(apiSessionIDField, apiSessionID).
		SetBool(streamingField, e.Streaming).
		SetFloat64(viewTimeSecondsField, e.ViewTimeSeconds).
		SetBool(engagementOver75PercentField, e.EngagementOver75Percent)
	return finishRecord(obj, snap, e.CustomParams), nil
}

func (b eventBuilder) buildShare(snap *configSnapshot, e ShareEvent) (ldvalue.Value, error) {
	if !e.ShareMethod.IsValid() {
		return ldvalue.Null(), &InvalidEventError{
			Field:  shareMethodField,
			Reason: fmt.Sprintf("has unknown value %q", string(e.ShareMethod)),
		}
	}
	refID, apiSessionID, err := validateIdentifiers(e.RefID, e.APISessionID)
	if err != nil {
		return ldvalue.Null(), err
	}

	obj, err := b.newRecord(snap, shareKind, e.ExtraParams)
	if err != nil {
		return ldvalue.Null(), err
	}
	obj.SetString(shareMethodField, string(e.ShareMethod)).
		SetString(refIDField, refID).
		SetString(apiSessionIDField, apiSessionID)
	return finishRecord(obj, snap, e.CustomParams), nil
}

// newRecord starts a record with the envelope, the ambient identity fields and the extra
// parameters. The event's own fields are added afterward, so they take precedence.
func (b eventBuilder) newRecord(
	snap *configSnapshot,
	kind string,
	extraParams map[string]string,
) (*ldvalue.ObjectBuilder, error) {
	eventID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("unable to generate event ID: %w", err)
	}

	obj := ldvalue.ObjectBuild()
	config := snap.config
	obj.SetString(appNameField, config.AppName).
		SetString(appVersionField, config.AppVersion).
		SetBool(isProductionField, config.IsProduction())
	if snap.location != nil {
		obj.SetFloat64(latitudeField, snap.location.Latitude).
			SetFloat64(longitudeField, snap.location.Longitude)
	}

	var ignored []string
	for _, key := range slices.Sorted(maps.Keys(extraParams)) {
		if _, protected := protectedFields[key]; protected {
			ignored = append(ignored, key)
			continue
		}
		obj.SetString(key, extraParams[key])
	}
	if len(ignored) != 0 {
		b.loggers.Debugf("Ignoring extra parameters that would replace event fields: %s", strings.Join(ignored, ", "))
	}

	obj.SetString(kindField, kind).
		SetString(eventIDField, eventID.String()).
		SetFloat64(creationDateField, float64(ldtime.UnixMillisNow()))
	return obj, nil
}

func finishRecord(obj *ldvalue.ObjectBuilder, snap *configSnapshot, customParams map[string]string) ldvalue.Value {
	obj.SetString(apiKeyField, snap.config.APIKey).
		SetString(appDomainField, snap.config.AppDomain)
	if len(customParams) != 0 {
		custom := ldvalue.ObjectBuildWithCapacity(len(customParams))
		for k, v := range customParams {
			custom.SetString(k, v)
		}
		obj.Set(customParamsField, custom.Build())
	}
	return obj.Build()
}

func validateIdentifiers(refID, apiSessionID string) (string, string, error) {
	refID = strings.TrimSpace(refID)
	if refID == "" {
		return "", "", &InvalidEventError{Field: refIDField, Reason: "must not be empty"}
	}
	apiSessionID = strings.TrimSpace(apiSessionID)
	if apiSessionID == "" {
		return "", "", &InvalidEventError{Field: apiSessionIDField, Reason: "must not be empty"}
	}
	return refID, apiSessionID, nil
}
