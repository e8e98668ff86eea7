package printavo

import (
	"encoding/json"
	"strings"

	"github.com/printsync/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// GraphQL Documents
// ---------------------------------------------------------------------------

const findContactsQuery = `
  query FindPrimaryContactByEmail($q: String!) {
    contacts(query: $q, primaryOnly: true, first: 5) {
      nodes {
        id
        firstName
        lastName
        customer {
          id
          companyName
        }
        emails {
          email
        }
      }
    }
  }
`

const customerCreateMutation = `
  mutation CreateCustomer($input: CustomerCreateInput!) {
    customerCreate(input: $input) {
      customer {
        id
        companyName
        primaryContact {
          id
          emails {
            email
          }
        }
      }
    }
  }
`

const quoteCreateMutation = `
  mutation CreateQuote($input: QuoteCreateInput!) {
    quoteCreate(input: $input) {
      quote {
        id
        nickname
        contact {
          id
        }
      }
    }
  }
`

const testConnectionQuery = `
  query TestConnection {
    __typename
  }
`

// ---------------------------------------------------------------------------
// GraphQL Envelope
// ---------------------------------------------------------------------------

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// errorMessages flattens the API's error list into one line for wrapping.
func (r *graphQLResponse) errorMessages() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ---------------------------------------------------------------------------
// Response Payloads
// ---------------------------------------------------------------------------

type emailNode struct {
	Email string `json:"email"`
}

type contactNode struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Customer  *struct {
		ID          string `json:"id"`
		CompanyName string `json:"companyName"`
	} `json:"customer"`
	Emails []emailNode `json:"emails"`
}

func (n *contactNode) toDomain() sync.Contact {
	contact := sync.Contact{
		ID:        n.ID,
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Emails:    make([]string, 0, len(n.Emails)),
	}
	for _, e := range n.Emails {
		contact.Emails = append(contact.Emails, e.Email)
	}
	if n.Customer != nil {
		contact.CustomerID = n.Customer.ID
	}
	return contact
}

type contactSearchPayload struct {
	Contacts struct {
		Nodes []contactNode `json:"nodes"`
	} `json:"contacts"`
}

type customerNode struct {
	ID             string `json:"id"`
	CompanyName    string `json:"companyName"`
	PrimaryContact *struct {
		ID     string      `json:"id"`
		Emails []emailNode `json:"emails"`
	} `json:"primaryContact"`
}

func (n *customerNode) toDomain() *sync.Customer {
	customer := &sync.Customer{
		ID:          n.ID,
		CompanyName: n.CompanyName,
	}
	if n.PrimaryContact != nil {
		customer.PrimaryContactID = n.PrimaryContact.ID
		for _, e := range n.PrimaryContact.Emails {
			customer.PrimaryContactEmails = append(customer.PrimaryContactEmails, e.Email)
		}
	}
	return customer
}

type customerCreatePayload struct {
	CustomerCreate struct {
		Customer *customerNode `json:"customer"`
	} `json:"customerCreate"`
}

type quoteNode struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Contact  *struct {
		ID string `json:"id"`
	} `json:"contact"`
}

func (n *quoteNode) toDomain() *sync.Quote {
	quote := &sync.Quote{
		ID:       n.ID,
		Nickname: n.Nickname,
	}
	if n.Contact != nil {
		quote.ContactID = n.Contact.ID
	}
	return quote
}

type quoteCreatePayload struct {
	QuoteCreate struct {
		Quote *quoteNode `json:"quote"`
	} `json:"quoteCreate"`
}

// ---------------------------------------------------------------------------
// Request Inputs
// ---------------------------------------------------------------------------

type addressWire struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func addressFromDomain(a *sync.AddressInput) *addressWire {
	if a == nil {
		return nil
	}
	return &addressWire{
		Name:     a.Name,
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		State:    a.State,
		Zip:      a.Zip,
		Country:  a.Country,
		Phone:    a.Phone,
	}
}

type contactWire struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type customerCreateWire struct {
	PrimaryContact  contactWire  `json:"primaryContact"`
	CompanyName     string       `json:"companyName,omitempty"`
	BillingAddress  *addressWire `json:"billingAddress,omitempty"`
	ShippingAddress *addressWire `json:"shippingAddress,omitempty"`
	InternalNote    string       `json:"internalNote,omitempty"`
}

func customerCreateFromDomain(input *sync.CustomerCreateInput) *customerCreateWire {
	return &customerCreateWire{
		PrimaryContact: contactWire{
			FirstName: input.PrimaryContact.FirstName,
			LastName:  input.PrimaryContact.LastName,
			Email:     input.PrimaryContact.Email,
			Phone:     input.PrimaryContact.Phone,
		},
		CompanyName:     input.CompanyName,
		BillingAddress:  addressFromDomain(input.BillingAddress),
		ShippingAddress: addressFromDomain(input.ShippingAddress),
		InternalNote:    input.InternalNote,
	}
}

type sizeCountWire struct {
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// lineItemWire carries the per-unit price as a number; quantities travel in
// the sizes list, so the price is never an extended amount.
type lineItemWire struct {
	Position    int             `json:"position"`
	Description string          `json:"description,omitempty"`
	ItemNumber  string          `json:"itemNumber,omitempty"`
	Price       float64         `json:"price"`
	Taxed       bool            `json:"taxed"`
	Sizes       []sizeCountWire `json:"sizes,omitempty"`
}

type lineItemGroupWire struct {
	Position  int            `json:"position"`
	LineItems []lineItemWire `json:"lineItems,omitempty"`
}

type idWire struct {
	ID string `json:"id"`
}

type quoteCreateWire struct {
	Contact         idWire              `json:"contact"`
	CustomerDueAt   string              `json:"customerDueAt"`
	DueAt           string              `json:"dueAt"`
	Nickname        string              `json:"nickname,omitempty"`
	VisualPoNumber  string              `json:"visualPoNumber,omitempty"`
	CustomerNote    string              `json:"customerNote,omitempty"`
	ProductionNote  string              `json:"productionNote,omitempty"`
	Tags            []string            `json:"tags,omitempty"`
	BillingAddress  *addressWire        `json:"billingAddress,omitempty"`
	ShippingAddress *addressWire        `json:"shippingAddress,omitempty"`
	LineItemGroups  []lineItemGroupWire `json:"lineItemGroups,omitempty"`
}

func quoteCreateFromDomain(input *sync.QuoteCreateInput) *quoteCreateWire {
	groups := make([]lineItemGroupWire, 0, len(input.LineItemGroups))
	for _, group := range input.LineItemGroups {
		items := make([]lineItemWire, 0, len(group.LineItems))
		for _, item := range group.LineItems {
			sizes := make([]sizeCountWire, 0, len(item.Sizes))
			for _, s := range item.Sizes {
				sizes = append(sizes, sizeCountWire{Size: string(s.Size), Count: s.Count})
			}
			items = append(items, lineItemWire{
				Position:    item.Position,
				Description: item.Description,
				ItemNumber:  item.ItemNumber,
				Price:       item.Price.InexactFloat64(),
				Taxed:       item.Taxed,
				Sizes:       sizes,
			})
		}
		groups = append(groups, lineItemGroupWire{Position: group.Position, LineItems: items})
	}

	return &quoteCreateWire{
		Contact:         idWire{ID: input.ContactID},
		CustomerDueAt:   input.CustomerDueAt,
		DueAt:           input.DueAt,
		Nickname:        input.Nickname,
		VisualPoNumber:  input.VisualPoNumber,
		CustomerNote:    input.CustomerNote,
		ProductionNote:  input.ProductionNote,
		Tags:            input.Tags,
		BillingAddress:  addressFromDomain(input.BillingAddress),
		ShippingAddress: addressFromDomain(input.ShippingAddress),
		LineItemGroups:  groups,
	}
}
