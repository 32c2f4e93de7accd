package models

// Page is one window of a paginated collection.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	NumPages    int  `json:"numPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

func (p Page[T]) Offset() int {
	return (p.Number - 1) * p.PageSize
}

type ProfileKind string

const (
	ProfileKindPage         ProfileKind = "page"
	ProfileKindSingleRecord ProfileKind = "single_record"
)

// ProfileView is either a page of the author's posts or, when the author has
// not posted yet, the author's own record. Exactly one of Page and User is set.
type ProfileView struct {
	Kind     ProfileKind     `json:"kind"`
	Page     *Page[FeedPost] `json:"page,omitempty"`
	User     *User           `json:"user,omitempty"`
	AuthorID string          `json:"authorId"`
	Stats    FollowStats     `json:"stats"`
}

func PageProfile(authorID string, page Page[FeedPost], stats FollowStats) ProfileView {
	return ProfileView{Kind: ProfileKindPage, Page: &page, AuthorID: authorID, Stats: stats}
}

func SingleRecordProfile(user *User, stats FollowStats) ProfileView {
	return ProfileView{Kind: ProfileKindSingleRecord, User: user, AuthorID: user.UserID, Stats: stats}
}

// PostsAmount is the number of posts the author has published.
func (v ProfileView) PostsAmount() int {
	if v.Kind == ProfileKindPage && v.Page != nil {
		return v.Page.Total
	}
	return 0
}

// Author returns the display fields of the profile owner for either variant.
func (v ProfileView) Author() (fullName, bio, avatar string) {
	switch v.Kind {
	case ProfileKindPage:
		if v.Page != nil && len(v.Page.Items) > 0 {
			p := v.Page.Items[0]
			u := User{FirstName: p.AuthorFirstName, LastName: p.AuthorLastName}
			return u.FullName(), p.AuthorBio, p.AuthorAvatar
		}
	case ProfileKindSingleRecord:
		if v.User != nil {
			return v.User.FullName(), v.User.Bio, v.User.Avatar
		}
	}
	return "", "", ""
}
