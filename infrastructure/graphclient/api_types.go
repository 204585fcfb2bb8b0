package graphclient

// Microsoft Graph response models, trimmed to the fields this tool reads.

// listEnvelope is the standard Graph collection envelope with a continuation
// link for cursor-based paging.
type listEnvelope[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

type teamAPI struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type channelAPI struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	MembershipType string `json:"membershipType"`
}

type siteAPI struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

type identityAPI struct {
	DisplayName string `json:"displayName"`
}

// deletedByAPI appears either as {"user": {...}} or as a bare identity,
// depending on the deleting principal.
type deletedByAPI struct {
	User        *identityAPI `json:"user"`
	DisplayName string       `json:"displayName"`
}

type recycleBinItemAPI struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Size                int64         `json:"size"`
	DeletedDateTime     string        `json:"deletedDateTime"`
	DeletedBy           *deletedByAPI `json:"deletedBy"`
	DeletedFromLocation string        `json:"deletedFromLocation"`
	WebURL              string        `json:"webUrl"`
}

type parentReferenceAPI struct {
	Path string `json:"path"`
}

type driveItemAPI struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Size                 int64               `json:"size"`
	LastModifiedDateTime string              `json:"lastModifiedDateTime"`
	WebURL               string              `json:"webUrl"`
	ParentReference      *parentReferenceAPI `json:"parentReference"`
}

// restoreResponseAPI is the body of a bulk restore acknowledgement. The batch
// endpoint echoes the ids it accepted; the list may be partial or empty even
// when the restore will succeed.
type restoreResponseAPI struct {
	Value []struct {
		ID string `json:"id"`
	} `json:"value"`
}

type restoreRequestAPI struct {
	IDs []string `json:"ids"`
}
