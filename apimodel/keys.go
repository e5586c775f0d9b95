package apimodel

type ButtonStatus struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Pressed bool   `json:"pressed"`
}

type KeyStatus struct {
	Buttons []ButtonStatus `json:"buttons"`
}
