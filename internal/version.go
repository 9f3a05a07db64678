package internal

// TrackerVersion is the current release version of the tracker. It is reported in the User-Agent
// header of every delivery request.
const TrackerVersion = "1.0.0"
