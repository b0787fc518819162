// Package sidecar persists a folder's review decisions in a hidden JSON file
// stored next to the photos.
//
// # File format
//
//	{
//	  "folder_path": "/photos/2025-06-28",
//	  "created": "2025-06-28T10:00:00+02:00",
//	  "last_updated": "2025-06-28T10:30:00+02:00",
//	  "actions": {
//	    "IMG_001": {"action": "keep_all", "timestamp": "2025-06-28T10:15:00+02:00"},
//	    "IMG_002": {"action": "delete_raw", "timestamp": null}
//	  }
//	}
//
// Only entries with an action other than "none" are written; a missing entry
// reads back as "none". A missing or unreadable file is an empty session.
package sidecar
