// Package construct implements the object-construction operator over the
// runtime value model: allocate an instance linked to the constructor's
// prototype, run the constructor with that instance as receiver, and keep
// the constructor's result only when it is a reference value.
package construct
