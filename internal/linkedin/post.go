package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brizzai/auto-linkedin/internal/requester"
)

type shareCommentary struct {
	Text string `json:"text"`
}

type shareContent struct {
	ShareCommentary    shareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// ugcPost is the body of a text-only public share.
type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

// PersonURN returns the person URN for a member id. Values that are already
// person URNs are returned unchanged.
func PersonURN(memberID string) string {
	if strings.HasPrefix(memberID, PersonURNPrefix) {
		return memberID
	}
	return PersonURNPrefix + memberID
}

func newTextPost(content, memberID string) ugcPost {
	return ugcPost{
		Author:         PersonURN(memberID),
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    shareCommentary{Text: content},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: visibility{MemberNetworkVisibility: "PUBLIC"},
	}
}

// PostContent publishes content as a public text post authored by memberID.
// HTTP 200 and 201 are accepted. LinkedIn does not return a canonical URL, so
// the feed URL is derived from the returned id.
func (c *Client) PostContent(ctx context.Context, content, accessToken, memberID string) (*PostResult, error) {
	// Same as GetUserInfo: an empty token is never sent, so there is no *APIError.
	if accessToken == "" {
		return nil, fmt.Errorf("linkedin %s: %w", OpPostContent, ErrEmptyAccessToken)
	}

	req, err := requester.NewJSONRequest(c.endpoints.PostURL, newTextPost(content, memberID), requester.NewBearerAuth(accessToken))
	if err != nil {
		return nil, err
	}
	req.WithHeader("X-Restli-Protocol-Version", RestliProtocolVersion)

	resp, err := c.call(ctx, OpPostContent, req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	doc := Document{}
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if doc, err = decodeDocument(resp.Body); err != nil {
			return nil, malformed(OpPostContent, err)
		}
	}

	result := &PostResult{RawResponse: doc}
	if id := postID(doc); id != "" {
		postURL := FeedURLPrefix + id
		result.PostID = &id
		result.URL = &postURL
	}
	return result, nil
}

// postID returns the id LinkedIn assigned to the post. Numeric ids are
// formatted as decimal; an empty string or a zero number means no id.
func postID(doc Document) string {
	switch v := doc["id"].(type) {
	case string:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
