package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

func Hyp3ApiUrl() string {
	if url := os.Getenv("HYP3_API_URL"); url != "" {
		return url
	}
	return "https://hyp3-api.asf.alaska.edu"
}

func Hyp3TokenUrl() string {
	return os.Getenv("HYP3_TOKEN_URL")
}

func Hyp3ClientId() string {
	return os.Getenv("HYP3_CLIENT_ID")
}

func Hyp3ClientSecret() string {
	return os.Getenv("HYP3_CLIENT_SECRET")
}

func AsfSearchUrl() string {
	if url := os.Getenv("ASF_SEARCH_URL"); url != "" {
		return url
	}
	return "https://api.daac.asf.alaska.edu/services/search/param"
}
