// Package audio plays a short cue when a notification is admitted.
// Cues are WAV, OGG or MP3 files decoded with beep, chosen per
// notification type and cached until the file changes on disk.
package audio
