package component

type Name string

var NameComponent = NewComponent[Name]("name")
