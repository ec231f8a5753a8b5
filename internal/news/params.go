package news

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Parameter families accepted by the newsdata.io endpoints.
var (
	strParams = map[string]bool{
		"q": true, "qInTitle": true, "qInMeta": true, "country": true, "category": true,
		"language": true, "domain": true, "domainurl": true, "excludedomain": true,
		"prioritydomain": true, "timezone": true,
	}
	boolParams = map[string]bool{"full_content": true, "image": true, "video": true}
	intParams  = map[string]bool{"timeframe": true, "size": true}
)

// Params is a validated set of query parameters.
type Params struct {
	values url.Values
}

func NewParams() *Params {
	return &Params{values: url.Values{}}
}

// Set validates value against the family of name and stores it.
// String parameters take a string or a []string (joined with commas),
// bool parameters a bool (sent as 1/0), int parameters an int.
func (p *Params) Set(name string, value any) error {
	switch {
	case strParams[name]:
		switch v := value.(type) {
		case string:
			p.values.Set(name, v)
		case []string:
			p.values.Set(name, strings.Join(v, ","))
		default:
			return fmt.Errorf("%s should be of type string, got %T", name, value)
		}
	case boolParams[name]:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s should be of type bool, got %T", name, value)
		}
		if v {
			p.values.Set(name, "1")
		} else {
			p.values.Set(name, "0")
		}
	case intParams[name]:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%s should be of type int, got %T", name, value)
		}
		p.values.Set(name, strconv.Itoa(v))
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// Get returns the encoded value of name, or "".
func (p *Params) Get(name string) string {
	return p.values.Get(name)
}

// Encode returns the query string, with page set when non-empty.
func (p *Params) Encode(page string) string {
	q := url.Values{}
	for k, v := range p.values {
		q[k] = v
	}
	if page != "" {
		q.Set("page", page)
	}
	return q.Encode()
}
