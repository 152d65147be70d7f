package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// Requests applies request-tracking actions.
func Requests(requests domain.Requests, action domain.Action) (domain.Requests, bool) {
	switch a := action.(type) {
	case domain.RequestResource:
		return setRequest(requests, domain.RequestRecord{
			RequestURI:   a.RequestURI,
			ResourceURI:  a.RequestURI,
			LoadingState: domain.LoadingRequested,
		}), true
	case domain.ResourceLoading:
		record := current(requests, a.RequestURI)
		record.LoadingState = domain.LoadingResource
		record.Error = ""
		return setRequest(requests, record), true
	case domain.RequestMismatch:
		record := current(requests, a.RequestURI)
		record.ResourceURI = a.ActualID
		record.URIMismatch = a.ActualID != a.RequestURI
		return setRequest(requests, record), true
	case domain.ResourceReady:
		record := current(requests, a.RequestURI)
		record.LoadingState = domain.LoadingReady
		record.Error = ""
		return setRequest(requests, record), true
	case domain.ResourceError:
		record := current(requests, a.RequestURI)
		record.LoadingState = domain.LoadingError
		record.Error = a.Message
		return setRequest(requests, record), true
	default:
		return requests, false
	}
}

func current(requests domain.Requests, uri string) domain.RequestRecord {
	if record, ok := requests[uri]; ok {
		return record
	}
	return domain.RequestRecord{
		RequestURI:  uri,
		ResourceURI: uri,
	}
}

func setRequest(requests domain.Requests, record domain.RequestRecord) domain.Requests {
	next := make(domain.Requests, len(requests)+1)
	for k, v := range requests {
		next[k] = v
	}
	next[record.RequestURI] = record
	return next
}
