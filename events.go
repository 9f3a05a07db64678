package eventtracker

// PlayEvent reports that the user watched a video.
type PlayEvent struct {
	// RefID identifies the video. Required.
	RefID string
	// APISessionID identifies the playback session. Required.
	APISessionID string
	// Streaming is true if the video was played from the network rather than from a local cache.
	Streaming bool
	// ViewTimeSeconds is how long the video was watched. It must not be negative; zero is allowed.
	ViewTimeSeconds float64
	// EngagementOver75Percent is true if the user watched more than 75% of the video.
	EngagementOver75Percent bool
	// ExtraParams are additional top-level fields for the event record. They can replace the
	// application identity fields (appName, appVersion, isProduction, latitude, longitude), but
	// not the API key, the app domain, or any field of the event itself.
	ExtraParams map[string]string
	// CustomParams are application-defined fields, reported as a nested "customParams" object.
	CustomParams map[string]string
}

// ShareEvent reports that the user shared a video.
type ShareEvent struct {
	// ShareMethod is the channel the video was shared through. Required.
	ShareMethod ShareMethod
	// RefID identifies the video. Required.
	RefID string
	// APISessionID identifies the session in which the video was shared. Required.
	APISessionID string
	// ExtraParams are additional top-level fields; see PlayEvent.ExtraParams.
	ExtraParams map[string]string
	// CustomParams are application-defined fields; see PlayEvent.CustomParams.
	CustomParams map[string]string
}

// ShareMethod is the channel through which a video was shared.
type ShareMethod string

const (
	// ShareMethodTwitter means the video was shared on Twitter.
	ShareMethodTwitter ShareMethod = "Twitter"
	// ShareMethodEmail means the video was shared by email.
	ShareMethodEmail ShareMethod = "Email"
	// ShareMethodFacebook means the video was shared on Facebook.
	ShareMethodFacebook ShareMethod = "Facebook"
	// ShareMethodBluetooth3GP means the video was sent to a nearby device as a 3GP file.
	ShareMethodBluetooth3GP ShareMethod = "Bluetooth3GP"
	// ShareMethodEmbedURL means the user copied the video's embed URL.
	ShareMethodEmbedURL ShareMethod = "EmbedURL"
)

// IsValid returns true if m is one of the defined ShareMethod constants.
func (m ShareMethod) IsValid() bool {
	switch m {
	case ShareMethodTwitter, ShareMethodEmail, ShareMethodFacebook, ShareMethodBluetooth3GP, ShareMethodEmbedURL:
		return true
	default:
		return false
	}
}
