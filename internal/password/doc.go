// Package password generates random passwords that contain at least one
// lowercase letter, one uppercase letter, one digit, and one symbol.
//
// One character is drawn from each class, the remaining length-4 characters
// are drawn from the union of all classes, and the result is shuffled with
// Fisher-Yates. Lengths below MinLength are not validated here; callers
// check them with Validate before generating.
package password
