package common

// SessionFileName is the hidden sidecar file kept inside every reviewed folder.
const SessionFileName = ".photosift_session.json"

// SettingsFileName is the preferences file kept in the user's home directory.
const SettingsFileName = ".photosift_settings.json"
