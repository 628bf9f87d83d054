package remote

import "github.com/anthropics/anthropic-sdk-go/option"

func anthropicBaseURL(u string) option.RequestOption { return option.WithBaseURL(u + "/") }
