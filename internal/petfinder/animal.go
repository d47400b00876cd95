package petfinder

// Animal is one record from the animals search endpoint. Optional parts of
// the payload are pointers so absence can be told apart from empty values.
type Animal struct {
	ID          int64    `json:"id"`
	Type        *string  `json:"type"`
	Name        string   `json:"name"`
	Age         *string  `json:"age"`
	Gender      *string  `json:"gender"`
	Size        *string  `json:"size"`
	Breeds      *Breeds  `json:"breeds"`
	Description *string  `json:"description"`
	Photos      []Photo  `json:"photos"`
	Contact     *Contact `json:"contact"`
	URL         string   `json:"url"`
}

// Breeds is the breed block of an animal.
type Breeds struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Mixed     bool    `json:"mixed"`
	Unknown   bool    `json:"unknown"`
}

// Photo holds the URLs of one photo at each resolution.
type Photo struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

// Contact is the shelter contact block.
type Contact struct {
	Email   *string  `json:"email"`
	Phone   *string  `json:"phone"`
	Address *Address `json:"address"`
}

// Address is the shelter address.
type Address struct {
	City     *string `json:"city"`
	State    *string `json:"state"`
	Postcode *string `json:"postcode"`
	Country  *string `json:"country"`
}

type animalsResponse struct {
	Animals []Animal `json:"animals"`
}

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
}
