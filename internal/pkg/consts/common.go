package consts

const (
	JobPublish    = "publish"
	JobStatistics = "statistics"
)

// YouTube 短视频标记
const (
	YoutubeShortsTag = "shorts"
	YoutubePrivacy   = "public"
)

const (
	LinkedinLifecyclePublished = "PUBLISHED"
	LinkedinVisibilityPublic   = "PUBLIC"
	LinkedinPersonURNPrefix    = "urn:li:person:"
)
